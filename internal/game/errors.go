package game

import "errors"

var (
	ErrVillageNotFound = errors.New("village not found")
	ErrArmyNotFound    = errors.New("army not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrHeroNotFound    = errors.New("hero not found")
	ErrJobNotFound     = errors.New("job not found")

	ErrNoUnitsSelected     = errors.New("no units selected")
	ErrInsufficientTroops  = errors.New("insufficient troops")
	ErrTribeMismatch       = errors.New("tribe mismatch")
	ErrHomeArmyExists      = errors.New("home army already exists")
	ErrSlotOccupied        = errors.New("building slot occupied")
	ErrSlotEmpty           = errors.New("building slot empty")
	ErrNoMerchantAvailable = errors.New("no merchant available")
	ErrUnresearchedUnit    = errors.New("unit not researched")
)

// InsufficientResourcesError 携带缺口明细，便于接口层给出可操作的提示。
type InsufficientResourcesError struct {
	Missing Resources
}

func (e *InsufficientResourcesError) Error() string {
	return "insufficient resources"
}

func NewInsufficientResourcesError(missing Resources) error {
	return &InsufficientResourcesError{Missing: missing}
}
