package checkout

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"watch-storefront-backend/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError maps a shipping field to the problem with it.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("%s: %s", field, v[field])
	}
	return "invalid shipping info: " + strings.Join(parts, "; ")
}

// ValidateShipping returns nil when every required field is present and the email is well formed.
func ValidateShipping(s models.ShippingInfoRequest) error {
	errs := ValidationError{}
	required := map[string]string{
		"name":    s.Name,
		"phone":   s.Phone,
		"address": s.Address,
		"city":    s.City,
		"state":   s.State,
		"zip":     s.Zip,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = "is required"
		}
	}

	email := strings.TrimSpace(s.Email)
	switch {
	case email == "":
		errs["email"] = "is required"
	case !emailRegex.MatchString(email):
		errs["email"] = "is not a valid email address"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
