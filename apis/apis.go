package apis

import (
	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/book-catalog/errors"
)

type CRUDResponse struct {
	Result any               `json:"result,omitempty"`
	Error  *errors.BaseError `json:"error,omitempty"`
}

// API is implemented by every route group of the catalog.
type API interface {
	Register(group *gin.RouterGroup)
}

var OKResponse = CRUDResponse{Result: map[string]any{"status": "OK"}}

func RegisterAPIs(group *gin.RouterGroup, apis ...API) {

	for _, api := range apis {
		api.Register(group)
	}
}
