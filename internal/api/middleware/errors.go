package middleware

import (
	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func HandleError(resp *restful.Response, err error, status int) {
	if werr := resp.WriteHeaderAndEntity(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	}); werr != nil {
		log.Error().Err(werr).Msg("Failed to write error response")
	}
}
