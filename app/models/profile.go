package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	RoleLojista = "lojista"
	RoleFabrica = "fabrica"
	RoleAdmin   = "admin"
)

// Profile is the account record of an authenticated user. Its ID equals the
// identifier issued by the external auth provider.
type Profile struct {
	ID               string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name             string     `gorm:"type:varchar(255)" json:"name"`
	Email            string     `gorm:"type:varchar(255);index" json:"email"`
	Role             string     `gorm:"type:varchar(20);default:'lojista'" json:"role"`
	Plan             string     `gorm:"type:varchar(20);default:'free'" json:"plan"`
	StoreName        string     `gorm:"type:varchar(255)" json:"store_name"`
	City             string     `gorm:"type:varchar(120)" json:"city"`
	State            string     `gorm:"type:varchar(60)" json:"state"`
	Phone            string     `gorm:"type:varchar(40)" json:"phone"`
	APIKeyHash       string     `gorm:"type:char(64);index;default:''" json:"-"`
	APIKeyPrefix     string     `gorm:"type:varchar(20);default:''" json:"api_key_prefix"`
	APIKeyCreatedAt  *time.Time `json:"api_key_created_at"`
	APIKeyLastUsedAt *time.Time `json:"api_key_last_used_at"`
	APIKeyRevokedAt  *time.Time `json:"api_key_revoked_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.Plan == "" {
		p.Plan = "free"
	}
	if p.Role == "" {
		p.Role = RoleLojista
	}
	return nil
}

var apiKeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// APIKeyPrefix marks raw API keys.
const APIKeyPrefix = "vp_"

// HasActiveAPIKey reports whether the profile has an API key that was not revoked.
func (p *Profile) HasActiveAPIKey() bool {
	return p != nil && p.APIKeyHash != "" && p.APIKeyRevokedAt == nil
}

// IssueAPIKey generates a new key, stores its hash and prefix on the profile
// and returns the raw secret. The caller persists the profile.
func (p *Profile) IssueAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	rawKey := APIKeyPrefix + strings.ToLower(apiKeyEncoding.EncodeToString(b))
	if len(rawKey) < 16 {
		return "", fmt.Errorf("api key generation failed: key too short")
	}
	now := time.Now()
	p.APIKeyHash = HashAPIKey(rawKey)
	p.APIKeyPrefix = rawKey[:16]
	p.APIKeyCreatedAt = &now
	p.APIKeyRevokedAt = nil
	p.APIKeyLastUsedAt = nil
	return rawKey, nil
}

// RevokeAPIKey clears the key material and marks the revocation time.
func (p *Profile) RevokeAPIKey() {
	now := time.Now()
	p.APIKeyHash = ""
	p.APIKeyPrefix = ""
	p.APIKeyRevokedAt = &now
	p.APIKeyLastUsedAt = nil
}

// HashAPIKey returns the hex encoded SHA-256 of a raw key.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}
