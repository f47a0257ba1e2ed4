package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caddieai/caddie/internal/golf"
	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/validation"
	"github.com/google/uuid"
)

const (
	DefaultNearbyRadiusMiles = 25.0
	MaxNearbyRadiusMiles     = 200.0
	maxNearbyResults         = 50
)

type HoleInput struct {
	HoleNumber   int      `json:"hole_number" yaml:"number"`
	Par          int      `json:"par" yaml:"par"`
	Yardage      int      `json:"yardage" yaml:"yardage"`
	StrokeIndex  *int     `json:"stroke_index" yaml:"stroke_index"`
	TeeLatitude  *float64 `json:"tee_latitude" yaml:"tee_latitude"`
	TeeLongitude *float64 `json:"tee_longitude" yaml:"tee_longitude"`
	PinLatitude  *float64 `json:"pin_latitude" yaml:"pin_latitude"`
	PinLongitude *float64 `json:"pin_longitude" yaml:"pin_longitude"`
	Description  string   `json:"description" yaml:"description"`
	Tips         string   `json:"tips" yaml:"tips"`
}

type CourseInput struct {
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description" yaml:"description"`
	Address      string      `json:"address" yaml:"address"`
	City         string      `json:"city" yaml:"city"`
	State        string      `json:"state" yaml:"state"`
	Country      string      `json:"country" yaml:"country"`
	Phone        string      `json:"phone" yaml:"phone"`
	Website      string      `json:"website" yaml:"website"`
	Latitude     float64     `json:"latitude" yaml:"latitude"`
	Longitude    float64     `json:"longitude" yaml:"longitude"`
	TotalHoles   int         `json:"total_holes" yaml:"total_holes"`
	ParTotal     int         `json:"par_total" yaml:"par_total"`
	CourseRating *float64    `json:"course_rating" yaml:"course_rating"`
	SlopeRating  *int        `json:"slope_rating" yaml:"slope_rating"`
	Holes        []HoleInput `json:"holes" yaml:"holes"`
}

type CourseService struct {
	courseRepository repository.CourseRepository
}

func NewCourseService(courseRepository repository.CourseRepository) *CourseService {
	return &CourseService{courseRepository: courseRepository}
}

func (s *CourseService) List(search string, page, size int) (*model.Page[*model.Course], error) {
	page, size, offset := model.NormalizePage(page, size)

	courses, total, err := s.courseRepository.List(search, size, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return model.NewPage(courses, page, size, total), nil
}

// Get returns the course with its holes in order.
func (s *CourseService) Get(id string) (*model.Course, error) {
	course, err := s.courseRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	course.Holes, err = s.courseRepository.Holes(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load holes: %w", err)
	}

	return course, nil
}

// Nearby returns active courses within radiusMiles of the point, closest first.
func (s *CourseService) Nearby(lat, lon, radiusMiles float64) ([]*model.Course, error) {
	if err := validation.ValidateCoordinates(lat, lon); err != nil {
		return nil, invalid("latitude", err)
	}
	if radiusMiles <= 0 {
		radiusMiles = DefaultNearbyRadiusMiles
	}
	if radiusMiles > MaxNearbyRadiusMiles {
		return nil, invalid("radius", fmt.Errorf("radius must not exceed %.0f miles", MaxNearbyRadiusMiles))
	}

	center := golf.Point{Lat: lat, Lon: lon}
	sw, ne := golf.Bounds(center, golf.MilesToMeters(radiusMiles))

	candidates, err := s.courseRepository.InBox(repository.BoundingBox{
		MinLat: sw.Lat, MaxLat: ne.Lat,
		MinLon: sw.Lon, MaxLon: ne.Lon,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}

	courses := make([]*model.Course, 0, len(candidates))
	for _, c := range candidates {
		d := golf.DistanceMiles(center, golf.Point{Lat: c.Latitude, Lon: c.Longitude})
		if d > radiusMiles {
			continue
		}
		d = golf.Round1(d)
		c.DistanceMiles = &d
		courses = append(courses, c)
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return *courses[i].DistanceMiles < *courses[j].DistanceMiles
	})
	if len(courses) > maxNearbyResults {
		courses = courses[:maxNearbyResults]
	}

	return courses, nil
}

func (s *CourseService) Create(ctx context.Context, actor *model.User, in CourseInput) (*model.Course, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	holes, err := validateCourse(&in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	course := &model.Course{
		ID:        uuid.New().String(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCourseInput(course, in)

	err = s.courseRepository.Create(ctx, course, holes)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateHole) {
			return nil, invalid("holes", err)
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	slog.Info("course created", "course_id", course.ID, "name", course.Name, "user_id", actor.ID)
	return s.Get(course.ID)
}

// Update replaces the course details. Holes are replaced by number when the input lists any,
// and holes past the new total are removed unless they have scores.
func (s *CourseService) Update(ctx context.Context, actor *model.User, id string, in CourseInput) (*model.Course, error) {
	if actor == nil || !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	course, err := s.courseRepository.ByID(id)
	if err != nil {
		return nil, err
	}

	if in.TotalHoles == 0 {
		in.TotalHoles = course.TotalHoles
	}
	if in.ParTotal == 0 && len(in.Holes) != in.TotalHoles {
		in.ParTotal = course.ParTotal
		if in.TotalHoles != course.TotalHoles {
			in.ParTotal, err = s.layoutPar(course.ID, in)
			if err != nil {
				return nil, err
			}
		}
	}

	holes, err := validateCourse(&in)
	if err != nil {
		return nil, err
	}

	applyCourseInput(course, in)
	course.UpdatedAt = time.Now().UTC()

	err = s.courseRepository.Update(ctx, course, holes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrHolesScored):
			return nil, invalid("total_holes", fmt.Errorf("holes after %d already have recorded scores", in.TotalHoles))
		case errors.Is(err, repository.ErrDuplicateHole):
			return nil, invalid("holes", err)
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	slog.Info("course updated", "course_id", course.ID, "user_id", actor.ID)
	return s.Get(course.ID)
}

// layoutPar sums the par of the stored holes within the new total, with the
// input's holes taking precedence. It returns 0 when some hole has no par yet.
func (s *CourseService) layoutPar(courseID string, in CourseInput) (int, error) {
	existing, err := s.courseRepository.Holes(courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to load holes: %w", err)
	}

	pars := make(map[int]int, in.TotalHoles)
	for _, h := range existing {
		if h.HoleNumber <= in.TotalHoles {
			pars[h.HoleNumber] = h.Par
		}
	}
	for _, h := range in.Holes {
		pars[h.HoleNumber] = h.Par
	}
	if len(pars) != in.TotalHoles {
		return 0, nil
	}

	total := 0
	for _, par := range pars {
		total += par
	}
	return total, nil
}

// Delete hides the course; rounds already played on it keep their history.
func (s *CourseService) Delete(actor *model.User, id string) error {
	if actor == nil || !actor.IsAdmin() {
		return ErrForbidden
	}

	err := s.courseRepository.Deactivate(id)
	if err != nil {
		return err
	}

	slog.Info("course deactivated", "course_id", id, "user_id", actor.ID)
	return nil
}

// validateCourse checks the input and converts hole inputs. It fills TotalHoles
// and ParTotal from the holes when those are omitted.
func validateCourse(in *CourseInput) ([]*model.Hole, error) {
	in.Name = strings.TrimSpace(in.Name)

	errs := validation.Errors{}
	errs.Check(in.Name != "" && utf8.RuneCountInString(in.Name) <= 200, "name", "name is required (max 200 characters)")
	if err := validation.ValidateCoordinates(in.Latitude, in.Longitude); err != nil {
		errs.Add("latitude", err.Error())
	}
	if in.TotalHoles == 0 {
		in.TotalHoles = len(in.Holes)
		if in.TotalHoles == 0 {
			in.TotalHoles = 18
		}
	}
	errs.Check(in.TotalHoles == 9 || in.TotalHoles == 18, "total_holes", "total holes must be 9 or 18")
	if in.SlopeRating != nil {
		errs.Check(*in.SlopeRating >= 55 && *in.SlopeRating <= 155, "slope_rating", "slope rating must be between 55 and 155")
	}
	if in.CourseRating != nil {
		errs.Check(*in.CourseRating > 0 && *in.CourseRating < 90, "course_rating", "course rating is out of range")
	}

	var holes []*model.Hole
	if len(in.Holes) > 0 {
		seen := make(map[int]bool, len(in.Holes))
		par := 0
		for _, h := range in.Holes {
			if err := validation.ValidateHoleNumber(h.HoleNumber, in.TotalHoles); err != nil {
				errs.Add("holes", err.Error())
				break
			}
			if seen[h.HoleNumber] {
				errs.Add("holes", fmt.Sprintf("hole %d is listed twice", h.HoleNumber))
				break
			}
			seen[h.HoleNumber] = true

			if h.Par < 3 || h.Par > 6 {
				errs.Add("holes", fmt.Sprintf("hole %d par must be between 3 and 6", h.HoleNumber))
				break
			}
			if (h.PinLatitude == nil) != (h.PinLongitude == nil) || (h.TeeLatitude == nil) != (h.TeeLongitude == nil) {
				errs.Add("holes", fmt.Sprintf("hole %d coordinates need both latitude and longitude", h.HoleNumber))
				break
			}
			par += h.Par

			holes = append(holes, &model.Hole{
				HoleNumber:   h.HoleNumber,
				Par:          h.Par,
				Yardage:      h.Yardage,
				StrokeIndex:  h.StrokeIndex,
				TeeLatitude:  h.TeeLatitude,
				TeeLongitude: h.TeeLongitude,
				PinLatitude:  h.PinLatitude,
				PinLongitude: h.PinLongitude,
				Description:  h.Description,
				Tips:         h.Tips,
			})
		}
		if len(in.Holes) == in.TotalHoles {
			in.ParTotal = par
		}
	}
	if in.ParTotal == 0 {
		in.ParTotal = 4 * in.TotalHoles
	}
	errs.Check(in.ParTotal >= 3*in.TotalHoles && in.ParTotal <= 6*in.TotalHoles, "par_total", "par total does not fit the number of holes")

	err := errs.Err()
	if err != nil {
		return nil, err
	}
	return holes, nil
}

func applyCourseInput(course *model.Course, in CourseInput) {
	course.Name = in.Name
	course.Description = strings.TrimSpace(in.Description)
	course.Address = strings.TrimSpace(in.Address)
	course.City = strings.TrimSpace(in.City)
	course.State = strings.TrimSpace(in.State)
	course.Country = strings.TrimSpace(in.Country)
	course.Phone = strings.TrimSpace(in.Phone)
	course.Website = strings.TrimSpace(in.Website)
	course.Latitude = in.Latitude
	course.Longitude = in.Longitude
	course.TotalHoles = in.TotalHoles
	course.ParTotal = in.ParTotal
	course.CourseRating = in.CourseRating
	course.SlopeRating = in.SlopeRating
}
