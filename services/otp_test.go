package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

const testPhone = "+15551234567"

func otpFixture(t *testing.T, policy OTPPolicy) (*OTPService, *fakeSMS) {
	db := setupTestDB(t)
	sms := &fakeSMS{}
	return NewOTPService(db, sms, policy, testLogger()), sms
}

func defaultPolicy() OTPPolicy {
	return OTPPolicy{HourlySendCap: 5, ResendCooldown: 60 * time.Second}
}

func TestOTPSendAndVerify(t *testing.T) {
	svc, sms := otpFixture(t, defaultPolicy())

	otp, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)
	assert.Len(t, otp.Code, 6)
	assert.Len(t, sms.sent, 1)

	outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, OTPValid, outcome)
}

func TestOTPSingleUse(t *testing.T) {
	svc, _ := otpFixture(t, defaultPolicy())

	otp, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)

	outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, otp.Code)
	require.NoError(t, err)
	require.Equal(t, OTPValid, outcome)

	outcome, err = svc.Verify(testPhone, models.OTPPurposeVerifyPhone, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, OTPInvalidCode, outcome, "a consumed code must not verify twice")
}

// Two concurrent verifications of the same correct code must produce
// exactly one OTPValid; the conditional consume serializes them.
func TestOTPConcurrentVerifySingleWinner(t *testing.T) {
	svc, _ := otpFixture(t, defaultPolicy())

	otp, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)

	var wg sync.WaitGroup
	outcomes := make([]VerifyOutcome, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Verify(testPhone, models.OTPPurposeVerifyPhone, otp.Code)
		}(i)
	}
	wg.Wait()

	var valid, invalid int
	for i := range outcomes {
		require.NoError(t, errs[i])
		switch outcomes[i] {
		case OTPValid:
			valid++
		case OTPInvalidCode:
			invalid++
		default:
			t.Fatalf("unexpected outcome %q", outcomes[i])
		}
	}
	assert.Equal(t, 1, valid, "exactly one verification may consume the code")
	assert.Equal(t, 1, invalid)
}

func TestOTPExpired(t *testing.T) {
	svc, _ := otpFixture(t, defaultPolicy())

	otp, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)

	require.NoError(t, svc.db.Model(&models.OTP{}).
		Where("id = ?", otp.ID).
		UpdateColumn("expires_at", time.Now().Add(-time.Minute)).Error)

	outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, OTPExpired, outcome)
}

func TestOTPAttemptsExceeded(t *testing.T) {
	svc, _ := otpFixture(t, defaultPolicy())

	otp, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)

	for i := 0; i < otpMaxAttempts-1; i++ {
		outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, "000000")
		require.NoError(t, err)
		require.Equal(t, OTPInvalidCode, outcome)
	}

	outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, "000000")
	require.NoError(t, err)
	require.Equal(t, OTPAttemptsExceeded, outcome)

	// The correct code no longer helps.
	outcome, err = svc.Verify(testPhone, models.OTPPurposeVerifyPhone, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, OTPInvalidCode, outcome)
}

func TestOTPNewSendInvalidatesPriorCode(t *testing.T) {
	svc, _ := otpFixture(t, OTPPolicy{HourlySendCap: 5, ResendCooldown: 0})

	first, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)
	second, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	if first.Code != second.Code {
		outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, first.Code)
		require.NoError(t, err)
		assert.Equal(t, OTPInvalidCode, outcome, "a superseded code must be dead")
	}

	outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, second.Code)
	require.NoError(t, err)
	assert.Equal(t, OTPValid, outcome)
}

func TestOTPHourlySendCap(t *testing.T) {
	svc, _ := otpFixture(t, OTPPolicy{HourlySendCap: 2, ResendCooldown: 0})

	_, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)
	_, err = svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)

	_, err = svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestOTPResendCooldown(t *testing.T) {
	svc, _ := otpFixture(t, defaultPolicy())

	_, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err)

	_, err = svc.Resend(testPhone, models.OTPPurposeVerifyPhone)
	require.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestOTPInvalidPhone(t *testing.T) {
	svc, _ := otpFixture(t, defaultPolicy())

	_, err := svc.Send("not-a-phone", models.OTPPurposeVerifyPhone)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestOTPSMSFailureDoesNotRollBack(t *testing.T) {
	db := setupTestDB(t)
	sms := &fakeSMS{fail: true}
	svc := NewOTPService(db, sms, defaultPolicy(), testLogger())

	otp, err := svc.Send(testPhone, models.OTPPurposeVerifyPhone)
	require.NoError(t, err, "SMS dispatch is best-effort")

	outcome, err := svc.Verify(testPhone, models.OTPPurposeVerifyPhone, otp.Code)
	require.NoError(t, err)
	assert.Equal(t, OTPValid, outcome)
}
