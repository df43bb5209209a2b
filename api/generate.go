package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/TripCu/ai-hotkey/domain"
	"github.com/TripCu/ai-hotkey/provider"
	"github.com/TripCu/ai-hotkey/service"
	"github.com/TripCu/ai-hotkey/validator"
)

const visionDisabledDetail = "Vision support is disabled. Set VISION_ENABLED=1 and configure a vision-capable model."

// GenerateResponse is the wire shape of a completed generation.
type GenerateResponse struct {
	Status      string             `json:"status"`
	ID          string             `json:"id"`
	Model       string             `json:"model"`
	Response    string             `json:"response"`
	FinalAnswer string             `json:"final_answer,omitempty"`
	ElapsedMs   int64              `json:"elapsed_ms"`
	Valid       *bool              `json:"valid,omitempty"`
	Validation  *validator.Verdict `json:"validation,omitempty"`
}

// Generate handles a JSON generation request.
// POST /generate
func (h *Handler) Generate(c echo.Context) error {
	var req domain.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid request body"})
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "prompt must not be empty"})
	}
	if len(req.Images) > 0 && !h.cfg.VisionEnabled {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": visionDisabledDetail})
	}

	return h.handleGeneration(c, &req)
}

// GenerateWithImage handles a multipart generation request with uploaded
// image attachments in place of inline base64 payloads.
// POST /generate-with-image
func (h *Handler) GenerateWithImage(c echo.Context) error {
	prompt := c.FormValue("prompt")
	if strings.TrimSpace(prompt) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "prompt must not be empty"})
	}

	req := domain.GenerateRequest{Prompt: prompt}
	if h.cfg.QuestionDomain != "" {
		req.Context.QuestionType = h.cfg.QuestionDomain
	}

	images, err := collectUploads(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": fmt.Sprintf("failed to read upload: %v", err)})
	}
	if len(images) > 0 {
		if !h.cfg.VisionEnabled {
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": visionDisabledDetail})
		}
		req.Images = images
		req.PromptPrefix = "Image(s) attached with the request."
	}

	return h.handleGeneration(c, &req)
}

func (h *Handler) handleGeneration(c echo.Context, req *domain.GenerateRequest) error {
	ctx := c.Request().Context()
	apiKey := c.Request().Header.Get("x-api-key")

	result, err := h.svc.Generate(ctx, req, c.RealIP(), apiKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRejected):
			return c.JSON(http.StatusBadRequest, echo.Map{"detail": "request rejected by admission policy"})
		case errors.Is(err, provider.ErrUpstream):
			log.Error().Err(err).Msg("LLM request failed")
			return c.JSON(http.StatusBadGateway, echo.Map{"detail": fmt.Sprintf("Upstream request failed: %v", err)})
		default:
			log.Error().Err(err).Msg("generation failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal error"})
		}
	}

	resp := GenerateResponse{
		Status:      "ok",
		ID:          result.ID,
		Model:       result.Model,
		Response:    result.Response,
		FinalAnswer: result.FinalAnswer,
		ElapsedMs:   result.ElapsedMs,
	}
	if result.Verdict != nil {
		resp.Valid = &result.Verdict.OK
		resp.Validation = result.Verdict
	}
	return c.JSON(http.StatusOK, resp)
}

// collectUploads base64-encodes every non-empty uploaded file.
func collectUploads(c echo.Context) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// Plain form without attachments.
		return nil, nil
	}

	var images []string
	for _, file := range form.File["files"] {
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", file.Filename, err)
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file.Filename, err)
		}
		if len(data) > 0 {
			images = append(images, base64.StdEncoding.EncodeToString(data))
		}
	}
	return images, nil
}
