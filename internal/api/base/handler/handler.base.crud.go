package basehdl

import (
	basesvc "engagement_survey/internal/api/base/service"
	"engagement_survey/internal/common"
	"engagement_survey/internal/logger"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
)

// InsertOne thêm mới một document. Body là CreateInput, được chuyển thành model qua ToModel
func (h *BaseHandler[T, CreateInput, UpdateInput]) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := CurrentSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input CreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if h.ToModel == nil {
			h.HandleResponse(c, nil, common.ErrInvalidOperation)
			return nil
		}

		model, err := h.ToModel(s, &input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		data, err := h.BaseService.InsertOne(c.Context(), model)
		if err == nil {
			logger.LogCRUD("insert", h.collectionName(), "", c, nil)
		}
		h.HandleResponse(c, data, err)
		return nil
	})
}

// Find trả về tất cả document khớp filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) Find(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.parseFindOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.Find(c.Context(), filter, opts.find())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindOne tìm một document theo filter
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.parseFindOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOne(c.Context(), filter, opts.findOne())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// scopedIDFilter tạo filter {_id, companyField} cho các thao tác theo id
func (h *BaseHandler[T, CreateInput, UpdateInput]) scopedIDFilter(c fiber.Ctx) (bson.M, error) {
	id, err := ParseID(c)
	if err != nil {
		return nil, err
	}
	return h.applyCompanyFilter(c, bson.M{"_id": id})
}

// FindOneById tìm một document theo :id
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindOneById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.scopedIDFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindOne(c.Context(), filter, nil)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindWithPagination tìm theo trang (?page=&limit=)
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithPagination(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		opts, err := h.parseFindOptions(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		page, err := queryInt64(c, "page", 1)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		limit, err := queryInt64(c, "limit", 10)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindWithPagination(c.Context(), filter, page, limit, opts.find())
		h.HandleResponse(c, data, err)
		return nil
	})
}

// FindWithCursor duyệt theo cursor (?cursor=&limit=), limit tối đa 100
func (h *BaseHandler[T, CreateInput, UpdateInput]) FindWithCursor(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.ProcessFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		limit, err := queryInt64(c, "limit", 0)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		data, err := h.BaseService.FindWithCursor(c.Context(), filter, c.Query("cursor", ""), limit)
		h.HandleResponse(c, data, err)
		return nil
	})
}

// CountDocuments đếm document khớp filter
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

// UpdateById cập nhật document theo :id với body UpdateInput
func (h *BaseHandler[T, CreateInput, UpdateInput]) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		filter, err := h.scopedIDFilter(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input UpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		update, err := basesvc.ToUpdateData(&input)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if len(update.Set) == 0 && len(update.Unset) == 0 {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Không có trường nào để cập nhật", common.StatusBadRequest, nil))
			return nil
		}

		data, err := h.BaseService.UpdateOne(c.Context(), filter, update)
		if err == nil {
			logger.LogCRUD("update", h.collectionName(), c.Params("id"), c, nil)
		}
		h.HandleResponse(c, data, err)
		return nil
	})
}

// DeleteById xoá document theo :id (chỉ trong phạm vi công ty)
func (h *BaseHandler[T, CreateInput, UpdateInput]) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := ParseID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		filter, err := h.applyCompanyFilter(c, bson.M{"_id": id})
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if _, err := h.BaseService.FindOne(c.Context(), filter, nil); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		err = h.BaseService.DeleteById(c.Context(), id)
		if err == nil {
			logger.LogCRUD("delete", h.collectionName(), c.Params("id"), c, nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

func (h *BaseHandler[T, CreateInput, UpdateInput]) collectionName() string {
	if named, ok := h.BaseService.(interface{ CollectionName() string }); ok {
		return named.CollectionName()
	}
	return ""
}
