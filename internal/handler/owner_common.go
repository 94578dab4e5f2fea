package handler // handler defines http handlers

import (
	"context"      // context builds timeouts around transport calls
	"errors"       // errors provides sentinel values used in getUserID
	"strconv"      // strconv converts strings to numeric types
	"strings"      // strings provides trimming and case helpers
	"time"         // time parses dates on report endpoints

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/reelworks/production-runner/internal/delivery"   // delivery drives the call sheet send loop
	"github.com/reelworks/production-runner/internal/repository" // repository holds data access layer
	"github.com/reelworks/production-runner/internal/transport"  // transport defines the external client types
)

// WeatherProvider is the forecast lookup used by the call sheet weather
// endpoint.  Satisfied by *transport.WeatherClient and by test fakes.
type WeatherProvider interface {
	Forecast(ctx context.Context, lat, lon float64, date time.Time) (*transport.Forecast, error)
}

// Geocoder resolves a street address to a coordinate.  Satisfied by
// *transport.GeocodeClient and by test fakes.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (transport.Coordinate, error)
}

// OwnerHandler bundles repositories and transports for owners to
// manipulate their productions.
type OwnerHandler struct {
	Productions  *repository.ProductionRepo // production persistence
	Scenes       *repository.SceneRepo      // stripboard persistence
	Cast         *repository.CastRepo       // cast member persistence
	Contacts     *repository.ContactRepo    // contact book persistence
	Budget       *repository.BudgetRepo     // budget line item persistence
	CallSheets   *repository.CallSheetRepo  // call sheet persistence
	Deliveries   *repository.DeliveryRepo   // delivery history persistence
	Weather      WeatherProvider            // forecast lookup for call sheets
	Geocoder     Geocoder                   // address → coordinate lookup
	Orchestrator *delivery.Orchestrator     // sequential send loop
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any
// repository is nil.  Transports may be nil in configurations that do not
// expose the weather and delivery endpoints.
func NewOwnerHandler(productions *repository.ProductionRepo, scenes *repository.SceneRepo,
	cast *repository.CastRepo, contacts *repository.ContactRepo, budget *repository.BudgetRepo,
	callSheets *repository.CallSheetRepo, deliveries *repository.DeliveryRepo,
	weather WeatherProvider, geocoder Geocoder, orch *delivery.Orchestrator) *OwnerHandler {
	if productions == nil || scenes == nil || cast == nil || contacts == nil ||
		budget == nil || callSheets == nil || deliveries == nil {
		panic("nil repository passed to NewOwnerHandler")
	}
	return &OwnerHandler{
		Productions:  productions,
		Scenes:       scenes,
		Cast:         cast,
		Contacts:     contacts,
		Budget:       budget,
		CallSheets:   callSheets,
		Deliveries:   deliveries,
		Weather:      weather,
		Geocoder:     geocoder,
		Orchestrator: orch,
	}
}

// errUnauthorized marks a request whose JWT context carried no usable
// user id.
var errUnauthorized = errors.New("invalid user_id in context")

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errUnauthorized
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parseCSVIDs parses a comma-joined id list ("3,7,12") the way scene
// cast_ids and budget child_ids are stored.  Blank and malformed entries
// are skipped.
func parseCSVIDs(s string) []uint64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64); err == nil {
			ids = append(ids, n)
		}
	}
	return ids
}

// ownedProduction loads a production and verifies it belongs to the
// authenticated owner.  It is the guard at the top of every production
// scoped handler.
func (h *OwnerHandler) ownedProduction(c echo.Context, productionID uint64) (uint64, error) {
	ownerID, err := getUserID(c)
	if err != nil {
		return 0, err
	}
	if _, err := h.Productions.GetByIDAndOwner(c.Request().Context(), productionID, ownerID); err != nil {
		return 0, err
	}
	return ownerID, nil
}
