package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const indexPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Inventory API</title></head>
<body>
<h1>Inventory API</h1>
<ul>
<li><code>GET /employees</code>, <code>POST /employees/search</code>, <code>POST /employees</code></li>
<li><code>GET|PUT|DELETE /employees/{id}</code></li>
<li><code>GET /products</code>, <code>POST /products/search</code>, <code>POST /products</code></li>
<li><code>GET|PUT|DELETE /products/{id}</code></li>
<li><code>GET /health</code></li>
</ul>
</body>
</html>
`

// Index serves a static page listing the endpoints.
func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}
