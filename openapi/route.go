package openapi

import (
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

type RouteBuilder struct {
	openapi   *OpenAPI
	method    string
	path      string
	operation *openapi3.Operation
}

func (rb *RouteBuilder) Summary(summary string) *RouteBuilder {
	rb.operation.Summary = summary
	return rb
}

func (rb *RouteBuilder) Description(description string) *RouteBuilder {
	rb.operation.Description = description
	return rb
}

func (rb *RouteBuilder) OperationID(id string) *RouteBuilder {
	rb.operation.OperationID = id
	return rb
}

func (rb *RouteBuilder) Tags(tags ...string) *RouteBuilder {
	rb.operation.Tags = append(rb.operation.Tags, tags...)
	return rb
}

func (rb *RouteBuilder) QueryParam(name, description string) *ParamBuilder {
	for _, p := range rb.operation.Parameters {
		if p.Value != nil && p.Value.Name == name && p.Value.In == openapi3.ParameterInQuery {
			p.Value.Description = description
			return &ParamBuilder{route: rb, param: p.Value}
		}
	}

	param := &openapi3.Parameter{
		Name:        name,
		In:          openapi3.ParameterInQuery,
		Description: description,
		Schema:      &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
	}
	rb.operation.Parameters = append(rb.operation.Parameters, &openapi3.ParameterRef{Value: param})
	return &ParamBuilder{route: rb, param: param}
}

func (rb *RouteBuilder) Response(statusCode int, example any, description string) *RouteBuilder {
	var content openapi3.Content
	if example != nil {
		content = openapi3.NewContentWithJSONSchemaRef(rb.openapi.generateSchema(example))
	}

	rb.operation.Responses.Set(strconv.Itoa(statusCode), &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &description,
			Content:     content,
		},
	})
	return rb
}

// OK documents the single 200 response; failures share that status and
// carry an error body instead.
func (rb *RouteBuilder) OK(example any, description string) *RouteBuilder {
	return rb.Response(http.StatusOK, example, description)
}

func (rb *RouteBuilder) Security(schemes ...string) *RouteBuilder {
	if rb.operation.Security == nil {
		rb.operation.Security = &openapi3.SecurityRequirements{}
	}
	for _, scheme := range schemes {
		*rb.operation.Security = append(*rb.operation.Security, openapi3.SecurityRequirement{scheme: []string{}})
	}
	return rb
}

func (rb *RouteBuilder) Build() {
	rb.openapi.addOperation(rb.method, rb.path, rb.operation)
}

type ParamBuilder struct {
	route *RouteBuilder
	param *openapi3.Parameter
}

func (pb *ParamBuilder) Required() *ParamBuilder {
	pb.param.Required = true
	return pb
}

func (pb *ParamBuilder) TypeInt() *ParamBuilder {
	pb.param.Schema.Value.Type = &openapi3.Types{"integer"}
	pb.param.Schema.Value.Min = ptr(0.0)
	return pb
}

func (pb *ParamBuilder) MinLength(length uint64) *ParamBuilder {
	pb.param.Schema.Value.MinLength = length
	return pb
}

func (pb *ParamBuilder) MaxLength(length uint64) *ParamBuilder {
	pb.param.Schema.Value.MaxLength = &length
	return pb
}

func (pb *ParamBuilder) Done() *RouteBuilder {
	return pb.route
}

func (pb *ParamBuilder) QueryParam(name, description string) *ParamBuilder {
	return pb.route.QueryParam(name, description)
}

func (pb *ParamBuilder) OK(example any, description string) *RouteBuilder {
	return pb.route.OK(example, description)
}

func (pb *ParamBuilder) Security(schemes ...string) *RouteBuilder {
	return pb.route.Security(schemes...)
}

func (pb *ParamBuilder) Build() {
	pb.route.Build()
}
