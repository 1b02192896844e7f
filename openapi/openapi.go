// Package openapi builds the API description served at /openapi.json.
package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

type OpenAPI struct {
	spec               *openapi3.T
	mu                 sync.RWMutex
	schemaRegistry     map[string]string
	schemaNameRegistry map[string]string
}

func New(title, version string) *OpenAPI {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{},
	}

	return &OpenAPI{
		spec:               spec,
		schemaRegistry:     make(map[string]string),
		schemaNameRegistry: make(map[string]string),
	}
}

func (o *OpenAPI) Description(desc string) *OpenAPI {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spec.Info.Description = desc
	return o
}

func (o *OpenAPI) Server(url, description string) *OpenAPI {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spec.Servers = append(o.spec.Servers, &openapi3.Server{
		URL:         url,
		Description: description,
	})
	return o
}

func (o *OpenAPI) Tag(name, description string) *OpenAPI {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.spec.Tags = append(o.spec.Tags, &openapi3.Tag{
		Name:        name,
		Description: description,
	})
	return o
}

// CookieAuth registers a security scheme carried in cookieName.
func (o *OpenAPI) CookieAuth(name, cookieName, description string) *OpenAPI {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.spec.Components.SecuritySchemes == nil {
		o.spec.Components.SecuritySchemes = make(openapi3.SecuritySchemes)
	}
	o.spec.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:        "apiKey",
			Name:        cookieName,
			In:          "cookie",
			Description: description,
		},
	}
	return o
}

func (o *OpenAPI) Spec() *openapi3.T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.spec
}

func (o *OpenAPI) JSON() ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return json.MarshalIndent(o.spec, "", "  ")
}

func (o *OpenAPI) YAML() ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	intermediate, err := o.spec.MarshalYAML()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(intermediate)
}

func (o *OpenAPI) JSONHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := o.JSON()
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, data)
	}
}

func (o *OpenAPI) YAMLHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := o.YAML()
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", data)
	}
}

func (o *OpenAPI) SwaggerUIHandler(specPath string) echo.HandlerFunc {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>` + o.spec.Info.Title + ` API</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
        SwaggerUIBundle({
            url: "` + specPath + `",
            dom_id: '#swagger-ui',
            withCredentials: true,
            presets: [SwaggerUIBundle.presets.apis],
            layout: "BaseLayout"
        });
    </script>
</body>
</html>`
	return func(c echo.Context) error {
		return c.HTML(http.StatusOK, html)
	}
}

// Document starts describing the route at method and path. Nothing is
// recorded until Build is called.
func (o *OpenAPI) Document(method, path string) *RouteBuilder {
	return &RouteBuilder{
		openapi:   o,
		method:    method,
		path:      path,
		operation: &openapi3.Operation{Responses: openapi3.NewResponses()},
	}
}

func (o *OpenAPI) addOperation(method, path string, op *openapi3.Operation) {
	o.mu.Lock()
	defer o.mu.Unlock()

	pathItem := o.spec.Paths.Find(path)
	if pathItem == nil {
		pathItem = &openapi3.PathItem{}
		o.spec.Paths.Set(path, pathItem)
	}

	pathItem.SetOperation(strings.ToUpper(method), op)
}

func (o *OpenAPI) generateSchema(example any) *openapi3.SchemaRef {
	o.mu.Lock()
	defer o.mu.Unlock()

	if example == nil {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}}
	}

	visited := make(map[string]bool)
	return o.generateSchemaFromType(reflect.TypeOf(example), visited)
}

func getTypeKey(t reflect.Type) string {
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func (o *OpenAPI) generateSchemaFromType(t reflect.Type, visited map[string]bool) *openapi3.SchemaRef {
	if t.Kind() == reflect.Pointer {
		innerRef := o.generateSchemaFromType(t.Elem(), visited)
		if innerRef.Ref != "" {
			return &openapi3.SchemaRef{
				Value: &openapi3.Schema{
					AllOf:    openapi3.SchemaRefs{innerRef},
					Nullable: true,
				},
			}
		}
		innerRef.Value.Nullable = true
		return innerRef
	}

	switch t.Kind() {
	case reflect.String:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}}}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Min: ptr(0.0)}}
	case reflect.Float32, reflect.Float64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}}}
	case reflect.Bool:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}
	case reflect.Slice, reflect.Array:
		return &openapi3.SchemaRef{
			Value: &openapi3.Schema{
				Type:  &openapi3.Types{"array"},
				Items: o.generateSchemaFromType(t.Elem(), visited),
			},
		}
	case reflect.Struct:
		return o.generateStructSchema(t, visited)
	default:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}}
	}
}

// generateStructSchema registers named structs under components/schemas and
// returns a reference. Name clashes across packages get a numeric suffix.
func (o *OpenAPI) generateStructSchema(t reflect.Type, visited map[string]bool) *openapi3.SchemaRef {
	if t.PkgPath() == "time" && t.Name() == "Time" {
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}}
	}

	if t.Name() == "" || t.PkgPath() == "" {
		return &openapi3.SchemaRef{Value: o.buildStructSchema(t, visited)}
	}

	typeKey := getTypeKey(t)
	if registeredName, exists := o.schemaRegistry[typeKey]; exists {
		return &openapi3.SchemaRef{Ref: "#/components/schemas/" + registeredName}
	}

	schemaName := t.Name()
	for suffix := 2; ; suffix++ {
		if _, taken := o.schemaNameRegistry[schemaName]; !taken {
			break
		}
		schemaName = t.Name() + strconv.Itoa(suffix)
	}

	o.schemaRegistry[typeKey] = schemaName
	o.schemaNameRegistry[schemaName] = typeKey

	schema := o.buildStructSchema(t, visited)
	if o.spec.Components.Schemas == nil {
		o.spec.Components.Schemas = make(openapi3.Schemas)
	}
	o.spec.Components.Schemas[schemaName] = &openapi3.SchemaRef{Value: schema}

	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + schemaName}
}

func (o *OpenAPI) buildStructSchema(t reflect.Type, visited map[string]bool) *openapi3.Schema {
	typeKey := getTypeKey(t)
	if visited[typeKey] {
		return &openapi3.Schema{Type: &openapi3.Types{"object"}}
	}
	visited[typeKey] = true
	defer delete(visited, typeKey)

	schema := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: make(openapi3.Schemas),
	}

	var required []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts, _ := strings.Cut(jsonTag, ",")
		if name == "" {
			name = field.Name
		}

		fieldSchemaRef := o.generateSchemaFromType(field.Type, visited)
		if doc := field.Tag.Get("doc"); doc != "" {
			if fieldSchemaRef.Ref != "" {
				fieldSchemaRef = &openapi3.SchemaRef{Value: &openapi3.Schema{
					AllOf:       openapi3.SchemaRefs{fieldSchemaRef},
					Description: doc,
				}}
			} else {
				fieldSchemaRef.Value.Description = doc
			}
		}
		schema.Properties[name] = fieldSchemaRef

		if !strings.Contains(opts, "omitempty") {
			required = append(required, name)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}
	return schema
}

func ptr[T any](v T) *T {
	return &v
}
