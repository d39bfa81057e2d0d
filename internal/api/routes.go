package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/validate").
			To(handler.Validate).
			Doc("Validate a student's clinical action against the supplied rules").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate"}).
			Reads(models.ValidationRequest{}).
			Writes(models.ValidationResult{}).
			Returns(200, "OK", models.ValidationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/cases").
			To(handler.ListCases).
			Doc("List the cases of the catalog").
			Metadata(restfulspec.KeyOpenAPITags, []string{"cases"}).
			Writes([]CaseSummary{}).
			Returns(200, "OK", []CaseSummary{}))

	ws.
		Route(ws.POST("/cases/{case_id}/validate").
			To(handler.ValidateCase).
			Doc("Validate a student's clinical action against a catalog case").
			Metadata(restfulspec.KeyOpenAPITags, []string{"validate", "cases"}).
			Param(ws.PathParameter("case_id", "Case identifier from the catalog").DataType("string")).
			Reads(CaseValidationRequest{}).
			Writes(models.ValidationResult{}).
			Returns(200, "OK", models.ValidationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(404, "Case Not Found", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	if handler.outcomes != nil {
		ws.
			Route(ws.GET("/outcomes/{event_id}").
				To(handler.Outcomes).
				Doc("Audit trail of a validation event").
				Metadata(restfulspec.KeyOpenAPITags, []string{"outcomes"}).
				Param(ws.PathParameter("event_id", "Event identifier").DataType("string")).
				Writes([]models.ValidationOutcome{}).
				Returns(200, "OK", []models.ValidationOutcome{}).
				Returns(404, "No Outcomes Recorded", middleware.ErrorResponse{}).
				Returns(500, "Internal Server Error", middleware.ErrorResponse{}))
	}

	container.Add(ws)
}

// RegisterOpenAPI serves the OpenAPI document of every registered web service.
func RegisterOpenAPI(container *restful.Container) {
	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Clinical Validator API",
			Description: "Rule-based validation of student clinical decisions",
			Version:     Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "validate", Description: "Clinical validation"}},
		{TagProps: spec.TagProps{Name: "cases", Description: "Case catalog"}},
		{TagProps: spec.TagProps{Name: "outcomes", Description: "Validation audit trail"}},
	}
}
