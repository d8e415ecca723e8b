package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-scribe/pkg/interfaces"
)

// preview parses the raw markdown body without touching the workspace and
// returns the chapters with the rendered HTML.
func (api *API) preview(c *gin.Context) {
	_, source, ok := api.readUpload(c)
	if !ok {
		return
	}
	result, err := api.parser.Parse(c.Request.Context(), source, interfaces.ParseOptions{
		Setext:  parseBoolQuery(c.Query("setext"), false),
		Preview: parseBoolQuery(c.Query("html"), true),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
