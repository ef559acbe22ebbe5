package http

import (
	"net/http"
	"sort"

	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
	calendarService "github.com/cmlabs-hris/payroll-engine-go/internal/service/calendar"
)

type CalendarHandler interface {
	GetHolidays(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService *calendarService.Service
}

func NewCalendarHandler(svc *calendarService.Service) CalendarHandler {
	return &calendarHandlerImpl{calendarService: svc}
}

type holidayEntry struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

func (h *calendarHandlerImpl) GetHolidays(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end, errs := validator.ValidateDateRange(q.Get("start"), q.Get("end"))
	if errs != nil {
		response.HandleError(w, errs)
		return
	}

	set := h.calendarService.Resolve(r.Context(), start, end)

	entries := make([]holidayEntry, 0, len(set))
	for key, hol := range set {
		entries = append(entries, holidayEntry{Date: key, Name: hol.Name})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })

	response.Success(w, entries)
}
