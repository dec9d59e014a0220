package handlers

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/ukydev/yatra-planner/internal/catalog"
	"github.com/ukydev/yatra-planner/internal/models"
)

var testDestinations = []models.Destination{
	{
		ID:            "kedarnath",
		Name:          "Kedarnath Temple",
		Names:         map[string]string{"hi": "केदारनाथ मंदिर"},
		Location:      "Rudraprayag, Uttarakhand",
		Coordinates:   models.Location{Lat: 30.7352, Lng: 79.0669},
		EstimatedDays: 2,
		EstimatedCost: 500,
		CrowdLevel:    models.CrowdHigh,
	},
	{
		ID:            "badrinath",
		Name:          "Badrinath Temple",
		Location:      "Chamoli, Uttarakhand",
		Coordinates:   models.Location{Lat: 30.7433, Lng: 79.4938},
		EstimatedDays: 1,
		EstimatedCost: 300,
	},
	{
		ID:          "jagannath",
		Name:        "Jagannath Temple",
		Location:    "Puri, Odisha",
		Coordinates: models.Location{Lat: 19.8048, Lng: 85.8179},
	},
}

func testCatalog() *catalog.Static {
	return catalog.NewStatic(testDestinations)
}

func withParams(req *http.Request, params ...httprouter.Param) *http.Request {
	ctx := context.WithValue(req.Context(), httprouter.ParamsKey, httprouter.Params(params))
	return req.WithContext(ctx)
}
