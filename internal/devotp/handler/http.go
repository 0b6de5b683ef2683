package handler

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"authify/backend/internal/devotp"
	"authify/backend/internal/http/response"
)

// HTTPHandler serves GET /dev/otp?email=&purpose= from store.
func HTTPHandler(store devotp.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		code, err := lookup(r.Context(), store, q.Get("email"), q.Get("purpose"))
		if err != nil {
			st := status.Convert(err)
			if st.Code() == codes.NotFound {
				response.Error(w, r, http.StatusNotFound, "OTP_NOT_FOUND", st.Message())
				return
			}
			response.Error(w, r, http.StatusBadRequest, "INVALID_INPUT", st.Message())
			return
		}
		response.JSON(w, r, http.StatusOK, map[string]string{"otp": code, "note": devOTPNote})
	}
}
