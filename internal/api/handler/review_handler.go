package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hospitalcore/hospital-system/internal/api/metrics"
	"github.com/hospitalcore/hospital-system/internal/core/domain"
	"github.com/hospitalcore/hospital-system/internal/core/ports"
)

// ReviewHandler handles review submission, listing and moderation.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	AppointmentID string  `json:"appointment_id" validate:"required"`
	Rating        float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment       string  `json:"comment,omitempty" validate:"max=500"`
}

type updateReviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string  `json:"comment,omitempty" validate:"max=500"`
}

type reviewResponse struct {
	ID               string     `json:"id"`
	AppointmentID    string     `json:"appointment_id"`
	PatientID        string     `json:"patient_id"`
	DoctorID         string     `json:"doctor_id"`
	Rating           float64    `json:"rating"`
	Text             string     `json:"text,omitempty"`
	Date             time.Time  `json:"date"`
	LastModifiedDate *time.Time `json:"last_modified_date,omitempty"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:               r.ID,
		AppointmentID:    r.AppointmentID,
		PatientID:        r.PatientID,
		DoctorID:         r.DoctorID,
		Rating:           r.Rating,
		Text:             r.Text,
		Date:             r.Date,
		LastModifiedDate: r.LastModifiedDate,
	}
}

func reviewListResponse(c echo.Context, items []*domain.Review) error {
	if len(items) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	out := make([]reviewResponse, 0, len(items))
	for _, r := range items {
		out = append(out, toReviewResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Create submits a review for one of the caller's completed appointments.
//
// @Summary      Create a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReviewRequest  true  "Review"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.service.AddForUser(c.Request().Context(), userID, ports.CreateReviewInput{
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		return err
	}

	metrics.ReviewsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// Update overwrites a review's rating and comment.
//
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Review id"
// @Param        body  body      updateReviewRequest  true  "New rating and comment"
// @Success      200   {object}  reviewResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// Get returns one review.
//
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Review id"
// @Success      200  {object}  reviewResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	review, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// ListByDoctor returns all reviews of one doctor.
//
// @Summary      List a doctor's reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Doctor id"
// @Success      200  {array}  reviewResponse
// @Success      204
// @Router       /api/reviews/doctor/{id} [get]
func (h *ReviewHandler) ListByDoctor(c echo.Context) error {
	items, err := h.service.ListByDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return reviewListResponse(c, items)
}

// ListMine returns the caller's own reviews.
//
// @Summary      List own reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  reviewResponse
// @Success      204
// @Router       /api/reviews/mine [get]
func (h *ReviewHandler) ListMine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListForPatientUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return reviewListResponse(c, items)
}

// Filter returns reviews matching the optional criteria.
//
// @Summary      Filter reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        doctor_id   query  string  false  "Doctor id"
// @Param        patient_id  query  string  false  "Patient id"
// @Param        min_rating  query  number  false  "Minimum rating"
// @Param        max_rating  query  number  false  "Maximum rating"
// @Param        date        query  string  false  "Calendar day (RFC 3339)"
// @Param        sort_by     query  string  false  "rating or date"
// @Success      200  {array}  reviewResponse
// @Success      204
// @Router       /api/reviews/filter [get]
func (h *ReviewHandler) Filter(c echo.Context) error {
	var q struct {
		DoctorID  string  `query:"doctor_id"`
		PatientID string  `query:"patient_id"`
		MinRating float64 `query:"min_rating"`
		MaxRating float64 `query:"max_rating"`
		Date      string  `query:"date"`
		SortBy    string  `query:"sort_by"`
	}
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	filter := ports.ReviewFilter{
		DoctorID:  q.DoctorID,
		PatientID: q.PatientID,
		MinRating: q.MinRating,
		MaxRating: q.MaxRating,
		SortBy:    q.SortBy,
	}
	if q.Date != "" {
		day, err := time.Parse(time.RFC3339, q.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be RFC 3339")
		}
		filter.Date = day
	}

	items, err := h.service.Filter(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return reviewListResponse(c, items)
}

// Delete removes a review.
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        id  path  string  true  "Review id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AverageRating returns the mean rating of one doctor, 0 when unreviewed.
//
// @Summary      Get a doctor's average rating
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Doctor id"
// @Success      200  {object}  map[string]float64
// @Router       /api/reviews/doctor/{id}/average [get]
func (h *ReviewHandler) AverageRating(c echo.Context) error {
	avg, err := h.service.DoctorAverageRating(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]float64{"average_rating": avg})
}
