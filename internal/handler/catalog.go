package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/seed"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/utils"
)

func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.repository.GetCatalog()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取排课目录成功", catalog)
}

// ReplaceCatalog 用请求体中的目录替换整个排课目录，旧的课表会一并删除
func (h *Handler) ReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	catalog, err := seed.DecodeCatalog(r.Body)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateCatalog(catalog); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReplaceCatalog(catalog); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "instructors_code_key":
				h.errorResponse(w, r, "教师编号重复")
			case "rooms_number_key":
				h.errorResponse(w, r, "教室编号重复")
			case "meeting_times_code_key":
				h.errorResponse(w, r, "时段编号重复")
			case "courses_number_key":
				h.errorResponse(w, r, "课程编号重复")
			case "departments_name_key":
				h.errorResponse(w, r, "院系名称重复")
			case "sections_code_key":
				h.errorResponse(w, r, "教学班编号重复")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新排课目录成功", catalog)
}
