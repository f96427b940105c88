package router

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

var ginPathParamRe = regexp.MustCompile(`[:*]([A-Za-z_]+)`)

// routeDoc serves a Swagger 2.0 document listing every route mounted on
// the engine. It is registered with swag so gin-swagger finds it under
// /swagger/doc.json.
type routeDoc struct {
	mu     sync.RWMutex
	engine *gin.Engine
}

var (
	apiDoc       = &routeDoc{}
	registerOnce sync.Once
)

func registerAPIDoc(r *gin.Engine) {
	apiDoc.mu.Lock()
	apiDoc.engine = r
	apiDoc.mu.Unlock()
	registerOnce.Do(func() { swag.Register(swag.Name, apiDoc) })
}

func ginPathToSwaggerPath(path string) string {
	return ginPathParamRe.ReplaceAllString(path, "{$1}")
}

// ReadDoc implements swag.Swagger.
func (d *routeDoc) ReadDoc() string {
	d.mu.RLock()
	engine := d.engine
	d.mu.RUnlock()
	if engine == nil {
		return "{}"
	}

	routes := engine.Routes()
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })

	paths := make(map[string]map[string]interface{})
	for _, route := range routes {
		if strings.HasPrefix(route.Path, "/swagger") {
			continue
		}
		path := ginPathToSwaggerPath(strings.TrimPrefix(route.Path, "/api/v1"))
		if paths[path] == nil {
			paths[path] = make(map[string]interface{})
		}

		op := map[string]interface{}{
			"summary":  route.Method + " " + route.Path,
			"tags":     []string{tagFor(path)},
			"produces": []string{"application/json"},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{"description": "Success", "schema": map[string]string{"$ref": "#/definitions/Response"}},
				"400": map[string]interface{}{"description": "Validation error", "schema": map[string]string{"$ref": "#/definitions/ErrorResponse"}},
			},
		}
		var params []map[string]interface{}
		for _, m := range ginPathParamRe.FindAllStringSubmatch(route.Path, -1) {
			params = append(params, map[string]interface{}{"in": "path", "name": m[1], "required": true, "type": "string"})
		}
		if route.Method == "POST" || route.Method == "PUT" {
			op["consumes"] = []string{"application/json"}
			params = append(params, map[string]interface{}{
				"in": "body", "name": "body", "required": false,
				"schema": map[string]string{"type": "object"},
			})
		}
		if params != nil {
			op["parameters"] = params
		}
		if strings.HasPrefix(route.Path, "/api/v1") && !strings.HasPrefix(path, "/auth/login") && !strings.HasPrefix(path, "/auth/refresh") {
			op["security"] = []map[string][]string{{"BearerAuth": {}}}
		}
		paths[path][strings.ToLower(route.Method)] = op
	}

	doc := map[string]interface{}{
		"swagger":  "2.0",
		"basePath": "/api/v1",
		"info": map[string]interface{}{
			"title":       "QuoteCRM API",
			"description": "Leads, quotations, invoices and payment tracking.",
			"version":     "1.0",
		},
		"securityDefinitions": map[string]interface{}{
			"BearerAuth": map[string]string{"type": "apiKey", "name": "Authorization", "in": "header"},
		},
		"definitions": map[string]interface{}{
			"Response": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"success": map[string]string{"type": "boolean"},
					"data":    map[string]string{"type": "object"},
					"meta":    map[string]string{"type": "object"},
				},
			},
			"ErrorResponse": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"success": map[string]string{"type": "boolean"},
					"error": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"code":    map[string]string{"type": "string"},
							"message": map[string]string{"type": "string"},
						},
					},
				},
			},
		},
		"paths": paths,
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(out)
}

func tagFor(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	if parts[0] == "" {
		return "default"
	}
	return parts[0]
}
