package handler

import (
	"net/http"

	"github.com/caddieai/caddie/internal/ctxkeys"
	"github.com/caddieai/caddie/internal/response"
	"github.com/caddieai/caddie/internal/service"
)

type CourseHandler struct {
	courseService *service.CourseService
}

func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

// List searches active courses by name or city: ?q=&page=&page_size=
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.courseService.List(
		r.URL.Query().Get("q"),
		queryInt(r, "page", 1),
		queryInt(r, "page_size", 0),
	)
	if err != nil {
		handleError(w, r, err, "failed to list courses")
		return
	}

	response.OK(w, page)
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.Get(r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to get course", "course_id", r.PathValue("id"))
		return
	}

	response.OK(w, course)
}

// Nearby expects ?lat=&lon=&radius= (miles).
func (h *CourseHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, okLat := queryFloat(r, "lat")
	lon, okLon := queryFloat(r, "lon")
	if !okLat || !okLon {
		response.ValidationError(w, map[string]string{"location": "lat and lon query parameters are required"})
		return
	}

	radius, ok := queryFloat(r, "radius")
	if !ok {
		radius = service.DefaultNearbyRadiusMiles
	}

	courses, err := h.courseService.Nearby(lat, lon, radius)
	if err != nil {
		handleError(w, r, err, "failed to find nearby courses")
		return
	}

	response.OK(w, courses)
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CourseInput
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courseService.Create(r.Context(), ctxkeys.User(r.Context()), req)
	if err != nil {
		handleError(w, r, err, "failed to create course")
		return
	}

	response.Created(w, course)
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.CourseInput
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courseService.Update(r.Context(), ctxkeys.User(r.Context()), r.PathValue("id"), req)
	if err != nil {
		handleError(w, r, err, "failed to update course", "course_id", r.PathValue("id"))
		return
	}

	response.OK(w, course)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.courseService.Delete(ctxkeys.User(r.Context()), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err, "failed to delete course", "course_id", r.PathValue("id"))
		return
	}

	response.Message(w, "Course deleted")
}
