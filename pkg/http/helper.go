package http

import (
	"net/http"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"strconv"
	"time"
)

func ExtractLimitOffset(r *http.Request) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	var offset int64 = 0
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = v
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	return limit, offset, nil
}

// ExtractDateRange reads optional check_in/check_out query parameters.
// Both must be present or both absent; values are RFC3339 instants.
func ExtractDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	query := r.URL.Query()
	inStr := query.Get("check_in")
	outStr := query.Get("check_out")

	if inStr == "" && outStr == "" {
		return nil, nil, nil
	}
	if inStr == "" || outStr == "" {
		return nil, nil, apperrors.InvalidInput("check_in and check_out must be provided together")
	}

	checkIn, err := time.Parse(time.RFC3339, inStr)
	if err != nil {
		return nil, nil, apperrors.InvalidInput("invalid check_in format, must be RFC3339")
	}
	checkOut, err := time.Parse(time.RFC3339, outStr)
	if err != nil {
		return nil, nil, apperrors.InvalidInput("invalid check_out format, must be RFC3339")
	}

	return &checkIn, &checkOut, nil
}

// ExtractActor reads the caller identity forwarded by the gateway.
// Authentication itself happens upstream; these headers are trusted input.
func ExtractActor(r *http.Request) (model.Actor, error) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		return model.Actor{}, apperrors.InvalidInput("X-User-ID header is required")
	}

	role := r.Header.Get("X-User-Role")
	if role == "" {
		role = config.RoleUser
	}
	if role != config.RoleUser && role != config.RoleAdmin {
		return model.Actor{}, apperrors.InvalidInput("X-User-Role must be 'user' or 'admin'")
	}

	return model.Actor{UserID: userID, Role: role}, nil
}
