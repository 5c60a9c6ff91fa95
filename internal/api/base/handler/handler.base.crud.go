// Package basehdl provides the generic CRUD handlers shared by the domain
// routers. It parses request bodies into DTOs, validates them with the global
// validator, and delegates persistence to a BaseServiceMongo.
package basehdl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	basesvc "church_connect/internal/api/base/service"
	"church_connect/internal/common"
	"church_connect/internal/global"
	"church_connect/internal/utility"
)

// FilterOptions constrains client-supplied filters.
type FilterOptions struct {
	DeniedFields     []string // Fields that may never be filtered on
	AllowedOperators []string // Mongo operators clients may use
	MaxFields        int      // Maximum fields per filter
}

// BaseHandler is the generic Fiber handler providing basic CRUD.
//
// Type parameters:
// - T: model type
// - CreateInput: DTO for creation
// - UpdateInput: DTO for updates
type BaseHandler[T any, CreateInput any, UpdateInput any] struct {
	BaseService   basesvc.BaseServiceMongo[T]
	filterOptions FilterOptions
}

// NewBaseHandler creates a BaseHandler over the given service.
func NewBaseHandler[T any, CreateInput any, UpdateInput any](baseService basesvc.BaseServiceMongo[T]) *BaseHandler[T, CreateInput, UpdateInput] {
	return &BaseHandler[T, CreateInput, UpdateInput]{
		BaseService: baseService,
		filterOptions: FilterOptions{
			DeniedFields: []string{
				"password",
				"token",
				"secret",
				"hash",
			},
			AllowedOperators: []string{
				"$eq", "$gt", "$gte", "$lt", "$lte", "$in", "$nin", "$exists",
			},
			MaxFields: 10,
		},
	}
}

// ParseRequestBody parses the request body into input. UseNumber keeps large
// integers exact.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, common.MsgValidationError, common.StatusBadRequest, err)
	}
	return nil
}

// ValidateInput runs the global validator over input.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ValidateInput(input interface{}) error {
	return global.ValidateStruct(input)
}

// ProcessFilter parses and validates the client filter from the query string.
func (h *BaseHandler[T, CreateInput, UpdateInput]) ProcessFilter(c fiber.Ctx) (bson.M, error) {
	var filter map[string]interface{}
	filterStr := c.Query("filter", "{}")
	if err := json.Unmarshal([]byte(filterStr), &filter); err != nil {
		return nil, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("Filter must be a JSON object, got: %s", filterStr),
			common.StatusBadRequest,
			err,
		)
	}

	if len(filter) > h.filterOptions.MaxFields {
		return nil, common.NewError(
			common.ErrCodeValidationInput,
			fmt.Sprintf("Filter may contain at most %d fields", h.filterOptions.MaxFields),
			common.StatusBadRequest,
			nil,
		)
	}

	result := bson.M{}
	for field, value := range filter {
		for _, denied := range h.filterOptions.DeniedFields {
			if field == denied {
				return nil, common.NewError(
					common.ErrCodeValidationInput,
					fmt.Sprintf("Filtering on field '%s' is not allowed", field),
					common.StatusBadRequest,
					nil,
				)
			}
		}
		if opMap, ok := value.(map[string]interface{}); ok {
			for op := range opMap {
				if !h.isAllowedOperator(op) {
					return nil, common.NewError(
						common.ErrCodeValidationInput,
						fmt.Sprintf("Operator '%s' is not allowed in filters", op),
						common.StatusBadRequest,
						nil,
					)
				}
			}
		}
		result[field] = value
	}
	return result, nil
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) isAllowedOperator(op string) bool {
	for _, allowed := range h.filterOptions.AllowedOperators {
		if op == allowed {
			return true
		}
	}
	return false
}

// convertInputToModel maps a DTO onto the model through a BSON round-trip so
// matching bson/json tags line up without reflection-heavy transform code.
func convertInputToModel[T any](input interface{}) (*T, error) {
	raw, err := bson.Marshal(input)
	if err != nil {
		return nil, err
	}
	var model T
	if err := bson.Unmarshal(raw, &model); err != nil {
		return nil, err
	}
	return &model, nil
}

// parseObjectIDParam reads and validates the :id route param.
func parseObjectIDParam(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	if id == "" {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			"ID must not be empty in URL params",
			common.StatusBadRequest,
			nil,
		)
	}
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("ID '%s' is not a valid MongoDB ObjectID (24-char hex string)", id),
			common.StatusBadRequest,
			nil,
		)
	}
	return utility.String2ObjectID(id), nil
}

// InsertOne creates a new document from the CreateInput DTO.
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input CreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		model, err := convertInputToModel[T](&input)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Failed to map input onto the model: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		data, err := h.BaseService.InsertOne(c.Context(), *model)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOneById finds a document by the :id route param.
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := parseObjectIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOneById(c.Context(), id)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Find returns documents matching the query-string filter.
func (h *BaseHandler[T, CreateInput, UpdateInput]) Find(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.Find(c.Context(), filter, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindWithPagination returns one page of documents.
// Query params: filter (JSON), page (default 1), limit (default 10).
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
		if err != nil || limit <= 0 {
			limit = 10
		}

		data, err := h.BaseService.FindWithPagination(c.Context(), filter, page, limit, mongoopts.Find())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// UpdateById applies a partial update from the UpdateInput DTO to a document.
// Only fields present in the input are written.
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := parseObjectIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		inputMap, err := utility.ToMap(&input)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrInvalidFormat)
			return nil
		}

		// Drop zero values so omitted fields are not overwritten.
		updateData := &basesvc.UpdateData{Set: map[string]interface{}{}}
		for k, v := range inputMap {
			if v == nil {
				continue
			}
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			updateData.Set[k] = v
		}

		data, err := h.BaseService.UpdateById(c.Context(), id, updateData)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DeleteById removes a document by the :id route param.
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := parseObjectIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.BaseService.DeleteById(c.Context(), id)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// CountDocuments counts documents matching the query-string filter.
func (h *BaseHandler[T, CreateInput, UpdateInput]) CountDocuments(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		count, err := h.BaseService.CountDocuments(c.Context(), filter)
		h.HandleResponse(c, count, err)
		return nil
	})
}
