package scheduling

import (
	"fmt"
	"strings"
)

// Policy — правила проверки ввода для конкретной точки входа бронирования.
// Ядро создания записи общее, различается только строгость проверки.
type Policy struct {
	Name string
	// RequirePhone — телефон обязателен (после удаления нецифровых символов).
	RequirePhone bool
	// ExactPhoneDigits > 0 — телефон должен содержать ровно столько цифр.
	ExactPhoneDigits int
	// ClientNote — пометка для новой карточки клиента.
	ClientNote string
}

var (
	StaffPolicy = Policy{
		Name:         "staff",
		RequirePhone: true,
		ClientNote:   "Registered from staff agenda",
	}
	PublicPolicy = Policy{
		Name:             "public",
		RequirePhone:     true,
		ExactPhoneDigits: PhoneDigits,
		ClientNote:       "Registered from public booking",
	}
)

// ContactInput — имя и телефон клиента из формы.
type ContactInput struct {
	Name  string
	Phone string
}

// CheckContact нормализует и проверяет имя и телефон.
func (p Policy) CheckContact(in ContactInput) (ContactInput, error) {
	out := ContactInput{
		Name:  strings.TrimSpace(in.Name),
		Phone: NormalizePhone(in.Phone),
	}
	if out.Name == "" {
		return out, Invalid("clientName", "is required")
	}
	if p.RequirePhone && out.Phone == "" {
		return out, Invalid("clientPhone", "is required")
	}
	if p.ExactPhoneDigits > 0 && len(out.Phone) != p.ExactPhoneDigits {
		return out, Invalid("clientPhone", fmt.Sprintf("must have exactly %d digits", p.ExactPhoneDigits))
	}
	return out, nil
}

// CheckSelection — мастер и услуга должны быть выбраны.
func CheckSelection(providerID, serviceID string) error {
	if strings.TrimSpace(providerID) == "" {
		return Invalid("providerId", "is required")
	}
	if strings.TrimSpace(serviceID) == "" {
		return Invalid("serviceId", "is required")
	}
	return nil
}
