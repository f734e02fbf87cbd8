package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skf-site/simgrid-proxy/internal/interfaces/dto"
	"github.com/skf-site/simgrid-proxy/internal/platform/logging"
	"github.com/skf-site/simgrid-proxy/internal/usecase"
)

type Handler struct {
	championshipService *usecase.ChampionshipService
	logger              *logging.Logger
	validator           *validator.Validate
}

func NewHandler(championshipService *usecase.ChampionshipService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		championshipService: championshipService,
		logger:              logger,
		validator:           validator.New(),
	}
}

type championshipRequest struct {
	ChampionshipID int64 `validate:"gt=0"`
	Force          bool
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListChampionships(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChampionships")
	defer span.End()

	force, err := parseForce(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.championshipService.ListChampionships(ctx, force)
	if err != nil {
		h.logger.WarnContext(ctx, "list championships failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dto.FromChampionshipList(items))
}

func (h *Handler) GetChampionship(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChampionship")
	defer span.End()

	req, err := h.parseChampionshipRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	details, err := h.championshipService.GetChampionship(ctx, req.ChampionshipID, req.Force)
	if err != nil {
		h.logger.WarnContext(ctx, "get championship failed", "championship_id", req.ChampionshipID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dto.FromChampionshipDetails(details))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	req, err := h.parseChampionshipRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.championshipService.GetStandings(ctx, req.ChampionshipID, req.Force)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "championship_id", req.ChampionshipID, "error", err)
		writeError(ctx, w, err)
		return
	}

	body := dto.FromStandings(snapshot)
	if fetchedAt, ok := h.championshipService.StandingsFetchedAt(ctx, req.ChampionshipID); ok {
		body.FetchedAt = &fetchedAt
	}
	writeSuccess(ctx, w, http.StatusOK, body)
}

func (h *Handler) InvalidateStandingsCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.InvalidateStandingsCache")
	defer span.End()

	req, err := h.parseChampionshipRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.championshipService.InvalidateCache(ctx, req.ChampionshipID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, cacheInvalidationDTO{
		ChampionshipID: req.ChampionshipID,
		Invalidated:    true,
	})
}

func (h *Handler) parseChampionshipRequest(ctx context.Context, r *http.Request) (championshipRequest, error) {
	rawID := strings.TrimSpace(r.PathValue("championshipID"))
	championshipID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return championshipRequest{}, fmt.Errorf("%w: championship id %q is not a number", usecase.ErrInvalidInput, rawID)
	}

	force, err := parseForce(r)
	if err != nil {
		return championshipRequest{}, err
	}

	req := championshipRequest{ChampionshipID: championshipID, Force: force}
	if err := h.validateRequest(ctx, req); err != nil {
		return championshipRequest{}, err
	}
	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseForce(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("force"))
	if raw == "" {
		return false, nil
	}
	force, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: force must be a boolean, got %q", usecase.ErrInvalidInput, raw)
	}
	return force, nil
}
