// Package api contains the HTTP handlers for the enrichment service
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"scent-enricher/backend/internal/repository"
	"scent-enricher/backend/internal/services"
	"scent-enricher/backend/pkg/models"
)

// Form field names of the edit form.
const (
	formName  = "chemical_name"
	formNote  = "note"
	formOdour = "odour"
	formPH    = "pH"
)

// Server holds the dependencies for the API server.
type Server struct {
	Service *services.EnrichmentService
}

// NewServer creates a new Server.
func NewServer(svc *services.EnrichmentService) *Server {
	return &Server{Service: svc}
}

// RegisterHandlers mounts the substance routes on g.
func RegisterHandlers(g *echo.Group, s *Server) {
	g.POST("/substances/process", s.ProcessUnprocessed)
	g.POST("/substances/save", s.SaveBatch)
	g.GET("/substances/:name", s.GetSubstance)
	g.POST("/substances/:name/enrich", s.EnrichSubstance)
}

// ProcessUnprocessed enriches every unprocessed substance.
// (POST /api/v1/substances/process)
func (s *Server) ProcessUnprocessed(c echo.Context) error {
	report, err := s.Service.AutoProcess(c.Request().Context())
	if errors.Is(err, services.ErrGeneratorUnavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

// SaveBatch applies user-edited rows. It accepts the edit form's parallel
// fields or the equivalent JSON body.
// (POST /api/v1/substances/save)
func (s *Server) SaveBatch(c echo.Context) error {
	var batch models.Batch
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := c.Bind(&batch); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
		}
	} else {
		form, err := c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid form: "+err.Error())
		}
		batch = models.Batch{
			Names:  form[formName],
			Notes:  form[formNote],
			Odours: form[formOdour],
			PHs:    form[formPH],
		}
	}

	report := s.Service.BulkSave(c.Request().Context(), batch)
	return c.JSON(http.StatusOK, report)
}

// GetSubstance returns one stored substance.
// (GET /api/v1/substances/:name)
func (s *Server) GetSubstance(c echo.Context) error {
	sub, err := s.Service.GetSubstance(c.Request().Context(), c.Param("name"))
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Substance not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, sub)
}

// EnrichResponse is the result of enriching one substance.
type EnrichResponse struct {
	Result  models.EnrichmentResult `json:"result"`
	Outcome string                  `json:"outcome"`
	Success bool                    `json:"success"`
}

// EnrichSubstance runs the enrichment cycle for one named substance.
// (POST /api/v1/substances/:name/enrich)
func (s *Server) EnrichSubstance(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing substance name")
	}
	result, outcome, err := s.Service.EnrichOne(c.Request().Context(), name)
	if errors.Is(err, services.ErrGeneratorUnavailable) {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if outcome == services.OutcomeNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Substance not found")
	}
	return c.JSON(http.StatusOK, EnrichResponse{
		Result:  result,
		Outcome: outcome.String(),
		Success: outcome.Success(),
	})
}
