package auth

import "github.com/userhub/user-service/internal/core/domain"

// Authorize grants access when required is empty or shares at least one role
// with granted. There is no role hierarchy.
func Authorize(required, granted []domain.Role) error {
	if len(required) == 0 {
		return nil
	}
	for _, want := range required {
		for _, have := range granted {
			if want == have {
				return nil
			}
		}
	}
	return domain.ErrForbidden
}
