package api

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/review-relay/internal/logger"
)

//go:embed dashboard.html
var dashboardHTML []byte

var callbackTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>Twitter Authorization</title></head>
<body style="font-family: sans-serif; max-width: 40em; margin: 4em auto;">
{{if .Error}}
<h1>Authorization failed</h1>
<p>{{.Error}}</p>
{{else}}
<h1>Authorization complete</h1>
<p>Store this access token as <code>TWITTER_USER_ACCESS_TOKEN</code> in the service environment:</p>
<p><code style="word-break: break-all;">{{.AccessToken}}</code></p>
<p>The token is not persisted anywhere by this service.</p>
{{end}}
</body>
</html>
`))

// Dashboard serves the embedded review dashboard page.
func (h *Handler) Dashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", dashboardHTML)
}

// TwitterCallback serves GET /twitter-callback: the OAuth 2.0
// authorization-code landing page. The code is exchanged for a user-context
// access token which is shown to the operator, never stored.
func (h *Handler) TwitterCallback(c *gin.Context) {
	code := c.Query("code")

	render := func(status int, data gin.H) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(status)
		if err := callbackTemplate.Execute(c.Writer, data); err != nil {
			h.logger.Error("Failed to render callback page", logger.Error(err))
		}
	}

	if errParam := c.Query("error"); errParam != "" {
		render(http.StatusBadRequest, gin.H{"Error": "authorization denied: " + errParam})
		return
	}
	if code == "" {
		render(http.StatusBadRequest, gin.H{"Error": "missing authorization code"})
		return
	}

	redirectURI := "https://" + c.Request.Host + "/twitter-callback"

	grant, err := h.twitter.ExchangeAuthCode(c.Request.Context(), code, redirectURI)
	if err != nil {
		h.logger.Error("Authorization code exchange failed", logger.Error(err))
		render(http.StatusBadGateway, gin.H{"Error": err.Error()})
		return
	}

	h.logger.Info("Authorization code exchanged for user token")
	render(http.StatusOK, gin.H{"AccessToken": grant.AccessToken})
}
