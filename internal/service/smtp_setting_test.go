package service

import (
	"errors"
	"testing"

	"github.com/storeflow/storeflow/internal/config"
	"github.com/storeflow/storeflow/internal/constants"
	"github.com/storeflow/storeflow/internal/models"
)

type mockSettingRepo struct {
	store map[string]models.JSON
}

func newMockSettingRepo() *mockSettingRepo {
	return &mockSettingRepo{store: map[string]models.JSON{}}
}

func (m *mockSettingRepo) GetByKey(key string) (*models.Setting, error) {
	value, ok := m.store[key]
	if !ok {
		return nil, nil
	}
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func (m *mockSettingRepo) Upsert(key string, value models.JSON) (*models.Setting, error) {
	m.store[key] = value
	return &models.Setting{Key: key, ValueJSON: value}, nil
}

func TestNormalizeSMTPSettingDefaultsPort(t *testing.T) {
	setting := NormalizeSMTPSetting(SMTPSetting{Host: "  smtp.example.com "})
	if setting.Port != 587 {
		t.Fatalf("expected default port 587, got %d", setting.Port)
	}
	if setting.Host != "smtp.example.com" {
		t.Fatalf("expected trimmed host, got %q", setting.Host)
	}
}

func TestValidateSMTPSetting(t *testing.T) {
	valid := SMTPSetting{
		Enabled: true,
		Host:    "smtp.example.com",
		Port:    465,
		From:    "notify@example.com",
		UseSSL:  true,
	}
	if err := ValidateSMTPSetting(valid); err != nil {
		t.Fatalf("expected valid setting, got %v", err)
	}

	bothTLS := valid
	bothTLS.UseTLS = true
	if err := ValidateSMTPSetting(bothTLS); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for tls+ssl, got %v", err)
	}

	noHost := valid
	noHost.Host = ""
	if err := ValidateSMTPSetting(noHost); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for missing host, got %v", err)
	}

	badFrom := valid
	badFrom.From = "not-an-address"
	if err := ValidateSMTPSetting(badFrom); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid for bad from, got %v", err)
	}

	disabled := SMTPSetting{Port: 587}
	if err := ValidateSMTPSetting(disabled); err != nil {
		t.Fatalf("disabled setting should skip host checks, got %v", err)
	}
}

func TestGetSMTPSettingFallsBackToStaticConfig(t *testing.T) {
	svc := NewSettingService(newMockSettingRepo())
	defaults := config.EmailConfig{
		Enabled: true,
		Host:    "smtp.fallback.test",
		Port:    2525,
		From:    "orders@fallback.test",
	}

	setting, err := svc.GetSMTPSetting(defaults)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if setting.Host != "smtp.fallback.test" || setting.Port != 2525 {
		t.Fatalf("expected fallback config, got %+v", setting)
	}
}

func TestPatchSMTPSettingKeepsStoredPassword(t *testing.T) {
	repo := newMockSettingRepo()
	svc := NewSettingService(repo)
	defaults := config.EmailConfig{Enabled: false}

	host := "smtp.example.com"
	from := "orders@example.com"
	password := "initial-secret"
	enabled := true
	if _, err := svc.PatchSMTPSetting(defaults, SMTPSettingPatch{
		Enabled:  &enabled,
		Host:     &host,
		From:     &from,
		Password: &password,
	}); err != nil {
		t.Fatalf("first patch: %v", err)
	}

	blank := "   "
	updated, err := svc.PatchSMTPSetting(defaults, SMTPSettingPatch{Password: &blank})
	if err != nil {
		t.Fatalf("second patch: %v", err)
	}
	if updated.Password != "initial-secret" {
		t.Fatalf("blank patch must keep the stored password, got %q", updated.Password)
	}

	stored := repo.store[constants.SettingKeySMTPConfig]
	if stored["password"] != "initial-secret" {
		t.Fatalf("stored password lost: %v", stored["password"])
	}

	masked := MaskSMTPSettingForAdmin(updated)
	if masked["password"] != "" || masked["has_password"] != true {
		t.Fatalf("mask must blank the password: %v", masked)
	}
}

func TestPatchSMTPSettingRejectsInvalid(t *testing.T) {
	svc := NewSettingService(newMockSettingRepo())
	enabled := true
	if _, err := svc.PatchSMTPSetting(config.EmailConfig{}, SMTPSettingPatch{Enabled: &enabled}); !errors.Is(err, ErrSMTPConfigInvalid) {
		t.Fatalf("expected ErrSMTPConfigInvalid when enabling without host, got %v", err)
	}
}
