package api

import (
	"time"

	"parkpool/auth"
	"parkpool/reservation"
	"parkpool/spot"
)

const timeLayout = time.RFC3339

type basicSpotData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotData struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	OwnerID   *string `json:"ownerId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type userData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type calendarDayData struct {
	Date                 string          `json:"date"`
	SpacesReservedByUser []basicSpotData `json:"spacesReservedByUser"`
	AvailableSpaces      int             `json:"availableSpaces"`
}

type calendarResponse struct {
	Calendar   []calendarDayData `json:"calendar"`
	OwnedSpots []basicSpotData   `json:"ownedSpots"`
}

type reservationData struct {
	Date        string        `json:"date"`
	ParkingSpot basicSpotData `json:"parkingSpot"`
	User        *userData     `json:"user,omitempty"`
}

type releaseReservationData struct {
	User userData `json:"user"`
}

type releaseData struct {
	Date        string                  `json:"date"`
	ParkingSpot basicSpotData           `json:"parkingSpot"`
	Reservation *releaseReservationData `json:"reservation"`
}

type userReservationsResponse struct {
	Reservations []reservationData `json:"reservations"`
	Releases     []releaseData     `json:"releases"`
	OwnedSpots   []basicSpotData   `json:"ownedSpots"`
}

type allReservationsResponse struct {
	Reservations []reservationData `json:"reservations"`
	Releases     []releaseData     `json:"releases"`
}

type reserveRequest struct {
	Dates         []string `json:"dates"`
	ParkingSpotID string   `json:"parkingSpotId"`
	UserID        string   `json:"userId"`
}

type reserveResponse struct {
	Reservations []reservationData `json:"reservations"`
	Message      string            `json:"message"`
}

type spotRequest struct {
	Name    string  `json:"name"`
	OwnerID *string `json:"ownerId"`
}

type spotListResponse struct {
	Data []spotData `json:"data"`
}

type spotResponse struct {
	Message string   `json:"message,omitempty"`
	Data    spotData `json:"data"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  userData `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message       string   `json:"message"`
	ErrorDates    []string `json:"errorDates,omitempty"`
	ErrorMessages []string `json:"errorMessages,omitempty"`
}

func toBasicSpotData(sp spot.ParkingSpot) basicSpotData {
	return basicSpotData{ID: sp.ID.String(), Name: sp.Name}
}

func toBasicSpotList(spots []spot.ParkingSpot) []basicSpotData {
	out := make([]basicSpotData, 0, len(spots))
	for _, sp := range spots {
		out = append(out, toBasicSpotData(sp))
	}
	return out
}

func toSpotData(sp spot.ParkingSpot) spotData {
	data := spotData{
		ID:        sp.ID.String(),
		Name:      sp.Name,
		CreatedAt: sp.CreatedAt.Format(timeLayout),
		UpdatedAt: sp.UpdatedAt.Format(timeLayout),
	}
	if sp.OwnerID != nil {
		owner := sp.OwnerID.String()
		data.OwnerID = &owner
	}
	return data
}

func toUserData(u auth.User) userData {
	return userData{ID: u.ID.String(), Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func toCalendarResponse(cal reservation.Calendar) calendarResponse {
	resp := calendarResponse{
		Calendar:   make([]calendarDayData, 0, len(cal.Days)),
		OwnedSpots: toBasicSpotList(cal.OwnedSpots),
	}
	for _, day := range cal.Days {
		resp.Calendar = append(resp.Calendar, calendarDayData{
			Date:                 reservation.FormatDate(day.Date),
			SpacesReservedByUser: toBasicSpotList(day.SpacesReservedByUser),
			AvailableSpaces:      day.AvailableSpaces,
		})
	}
	return resp
}

func toReservationData(res reservation.DayReservation, withUser bool) reservationData {
	data := reservationData{
		Date:        reservation.FormatDate(res.Date),
		ParkingSpot: basicSpotData{ID: res.SpotID.String(), Name: res.SpotName},
	}
	if withUser {
		data.User = &userData{ID: res.UserID.String(), Name: res.UserName, Email: res.UserEmail}
	}
	return data
}

func toReleaseData(view reservation.ReleaseView) releaseData {
	data := releaseData{
		Date:        reservation.FormatDate(view.Release.Date),
		ParkingSpot: basicSpotData{ID: view.Release.SpotID.String(), Name: view.Release.SpotName},
	}
	if view.Reservation != nil {
		data.Reservation = &releaseReservationData{
			User: userData{
				ID:    view.Reservation.UserID.String(),
				Name:  view.Reservation.UserName,
				Email: view.Reservation.UserEmail,
			},
		}
	}
	return data
}
