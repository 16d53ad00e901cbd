package catalog

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/erp/reconciler/internal/domain/shared"
)

const maxAccountNameLength = 100

// Account is a user's account on one platform. Its authorization fields hold
// the credentials described by AuthFieldsDescription for that platform.
type Account struct {
	shared.BaseEntity
	UserID              int64
	PlatformID          int64
	PlatformType        PlatformType
	Name                string
	AuthorizationFields map[string]string
}

// NewAccount validates and creates an account on the given platform.
func NewAccount(userID int64, platform Platform, name string, authFields map[string]string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxAccountNameLength {
		return nil, ErrInvalidAccountName
	}
	if err := ValidateAuthFields(platform.Type, authFields); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(authFields))
	for k, v := range authFields {
		fields[k] = v
	}

	return &Account{
		BaseEntity:          shared.NewBaseEntity(),
		UserID:              userID,
		PlatformID:          platform.ID,
		PlatformType:        platform.Type,
		Name:                name,
		AuthorizationFields: fields,
	}, nil
}

// IsWarehouse reports whether the account belongs to the warehouse system
func (a *Account) IsWarehouse() bool {
	return a.PlatformType.IsWarehouse()
}

// ValidateAuthFields checks credentials against the platform description:
// every described field is required, nothing else is accepted, and values
// respect their maximum length.
func ValidateAuthFields(t PlatformType, fields map[string]string) error {
	description := AuthFieldsDescription(t)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := description.Lookup(k); !ok {
			return shared.NewDomainError(ErrUnknownAuthField.Code,
				fmt.Sprintf("Authorization field %q is not expected for %s", k, t.Label()))
		}
	}

	for _, field := range description {
		value := strings.TrimSpace(fields[field.Key])
		if value == "" {
			return shared.NewDomainError(ErrMissingAuthField.Code,
				fmt.Sprintf("Authorization field %q is required", field.Key))
		}
		if utf8.RuneCountInString(value) > field.MaxLength {
			return shared.NewDomainError(ErrAuthFieldTooLong.Code,
				fmt.Sprintf("Authorization field %q cannot exceed %d characters", field.Key, field.MaxLength))
		}
	}
	return nil
}
