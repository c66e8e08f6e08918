package booking

import (
	"fmt"

	"agendapro/utils"
)

func validationError(format string, args ...any) error {
	return utils.NewAppError(utils.KindValidation, fmt.Sprintf(format, args...), nil)
}

func outsideHoursError(format string, args ...any) error {
	return utils.NewAppError(utils.KindOutsideHours, fmt.Sprintf(format, args...), nil)
}

func conflictError(format string, args ...any) error {
	return utils.NewAppError(utils.KindConflict, fmt.Sprintf(format, args...), nil)
}

func notFoundError(format string, args ...any) error {
	return utils.NewAppError(utils.KindNotFound, fmt.Sprintf(format, args...), nil)
}
