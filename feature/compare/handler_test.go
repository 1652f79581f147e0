package compare

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testApp(defaultProfile *Profile) *fiber.App {
	app := fiber.New()
	NewHandler(NewService(zap.NewNop(), nil, nil), defaultProfile).RegisterRoutes(app)
	return app
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, content := range files {
		name := field + ".csv"
		if field == "document" {
			name = field + ".txt"
		}
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func doRequest(t *testing.T, app *fiber.App, path string, files map[string]string) *http.Response {
	t.Helper()

	body, contentType := multipartBody(t, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleKeyed(t *testing.T) {
	p, err := ParseProfile([]byte(profileYAML))
	require.NoError(t, err)
	app := testApp(p)

	resp := doRequest(t, app, "/compare/keyed", map[string]string{
		"master":   "Roll No,Sub Code,GRADE,RESULT\n7,CS101,A,P\n",
		"document": "ROLL NO 7 CS101 DATA STRUCTURES 90 B 8 PASS END OF STATEMENT",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var output KeyedOutput
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &output))

	assert.Equal(t, 1, output.Result.Summary.Mismatched)
	assert.NotEmpty(t, output.RunID)
}

func TestHandleKeyed_UploadedProfile(t *testing.T) {
	app := testApp(nil)

	resp := doRequest(t, app, "/compare/keyed", map[string]string{
		"master":   "Roll No,Sub Code,GRADE,RESULT\n7,CS101,A,P\n",
		"document": "ROLL NO 7 CS101 DATA STRUCTURES 90 A 8 PASS END OF STATEMENT",
		"profile":  profileYAML,
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandleKeyed_MissingProfile(t *testing.T) {
	app := testApp(nil)

	resp := doRequest(t, app, "/compare/keyed", map[string]string{
		"master":   "Roll No\n7\n",
		"document": "TEXT",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var inputErr InputError
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &inputErr))
	assert.Equal(t, KindBadProfile, inputErr.Kind)
}

func TestHandleKeyed_EmptyDocument(t *testing.T) {
	p, err := ParseProfile([]byte(profileYAML))
	require.NoError(t, err)
	app := testApp(p)

	resp := doRequest(t, app, "/compare/keyed", map[string]string{
		"master":   "Roll No,Sub Code,GRADE,RESULT\n7,CS101,A,P\n",
		"document": "   ",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var inputErr InputError
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &inputErr))
	assert.Equal(t, KindEmptyText, inputErr.Kind)
}

func TestHandlePresence(t *testing.T) {
	app := testApp(&Profile{})

	resp := doRequest(t, app, "/compare/presence", map[string]string{
		"master":   "NAME,ID\nJOHN,123\n",
		"document": "STUDENT ID 123 REPORT",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var output PresenceOutput
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &output))

	require.Len(t, output.Report.Rows, 1)
	assert.Equal(t, "JOHN", output.Report.Rows[0].Missing["NAME"])
}

func TestHandleKeyed_WorkbookDownload(t *testing.T) {
	p, err := ParseProfile([]byte(profileYAML))
	require.NoError(t, err)
	app := testApp(p)

	body, contentType := multipartBody(t, map[string]string{
		"master":   "Roll No,Sub Code,GRADE,RESULT\n7,CS101,A,P\n",
		"document": "ROLL NO 7 CS101 DATA STRUCTURES 90 A 8 PASS END OF STATEMENT",
	})
	req := httptest.NewRequest(http.MethodPost, "/compare/keyed?format=xlsx", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx")
}
