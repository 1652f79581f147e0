package compare

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"doc-reconciler/core/logger"
	"doc-reconciler/core/report"
)

// Handler handles HTTP requests for comparison runs.
type Handler struct {
	service        *Service
	defaultProfile *Profile
}

// NewHandler creates a new HTTP handler. defaultProfile may be nil; then
// every keyed request must upload its own profile.
func NewHandler(service *Service, defaultProfile *Profile) *Handler {
	return &Handler{service: service, defaultProfile: defaultProfile}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Post("/keyed", h.HandleKeyed)
	group.Post("/presence", h.HandlePresence)
}

// HandleKeyed runs a keyed reconciliation over an uploaded master workbook
// and document text. Multipart fields: master (xlsx/csv), document (txt),
// profile (yaml, optional when a default profile is configured).
// With ?format=xlsx the response is the report workbook instead of JSON.
func (h *Handler) HandleKeyed(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sources, profile, cleanup, err := h.requestInputs(c)
	if err != nil {
		return respondError(c, l, err)
	}
	defer cleanup()

	output, err := h.service.RunKeyed(c.Context(), *sources, profile)
	if err != nil {
		return respondError(c, l, err)
	}

	if c.Query("format") == "xlsx" {
		return respondWorkbook(c, output.RunID, output.Artifacts)
	}
	return c.JSON(output)
}

// HandlePresence runs the fallback presence check. Multipart fields are the
// same as for the keyed mode; the profile only contributes header mapping
// and the column selection.
func (h *Handler) HandlePresence(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sources, profile, cleanup, err := h.requestInputs(c)
	if err != nil {
		return respondError(c, l, err)
	}
	defer cleanup()

	output, err := h.service.RunPresence(c.Context(), *sources, profile)
	if err != nil {
		return respondError(c, l, err)
	}

	if c.Query("format") == "xlsx" {
		return respondWorkbook(c, output.RunID, []report.Artifact{output.Artifact})
	}
	return c.JSON(output)
}

// requestInputs collects the uploaded sources and resolves the profile. The
// returned cleanup closes both uploads and must be called after the run.
func (h *Handler) requestInputs(c *fiber.Ctx) (*Sources, *Profile, func(), error) {
	master, masterName, err := formFile(c, "master")
	if err != nil {
		return nil, nil, nil, &InputError{Kind: KindBadMaster, Detail: "missing master file upload"}
	}

	document, _, err := formFile(c, "document")
	if err != nil {
		master.Close()
		return nil, nil, nil, &InputError{Kind: KindEmptyText, Detail: "missing document file upload"}
	}
	cleanup := func() {
		master.Close()
		document.Close()
	}

	profile := h.defaultProfile
	if file, _, err := formFile(c, "profile"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err == nil {
			profile, err = ParseProfile(data)
		}
		if err != nil {
			cleanup()
			return nil, nil, nil, &InputError{Kind: KindBadProfile, Detail: err.Error()}
		}
	}
	if profile == nil {
		cleanup()
		return nil, nil, nil, &InputError{Kind: KindBadProfile, Detail: "no profile uploaded and no default profile configured"}
	}

	return &Sources{
		Master:     master,
		MasterName: masterName,
		Document:   document,
	}, profile, cleanup, nil
}

func formFile(c *fiber.Ctx, field string) (multipart.File, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}
	file, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	return file, fh.Filename, nil
}

// respondError maps fatal input errors to 422 with their kind and detail;
// everything else is a 500 with a generic message.
func respondError(c *fiber.Ctx, l *zap.Logger, err error) error {
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		l.Warn("Run rejected", zap.String("kind", inputErr.Kind), zap.String("detail", inputErr.Detail))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(inputErr)
	}
	l.Error("Run failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "comparison run failed",
	})
}

// respondWorkbook streams the artifacts as a single .xlsx download.
func respondWorkbook(c *fiber.Ctx, runID string, artifacts []report.Artifact) error {
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, artifacts); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build report workbook",
		})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "report-"+runID+".xlsx"))
	return c.Send(buf.Bytes())
}
