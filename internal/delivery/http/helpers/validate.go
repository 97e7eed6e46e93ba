package helpers

import (
	"encoding/json"
	"net/http"

	"partnershipintake/internal/validation"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and runs the struct's validate tags. On decode failure it writes 400 bad_request,
// on rule failures 400 validation_failed with fields, and returns false.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	if errs := validation.Struct(dest); len(errs) > 0 {
		WriteValidationError(w, errs)
		return false
	}
	return true
}
