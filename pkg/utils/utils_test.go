package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/database/dbtest"
	"github.com/capital/finance/pkg/entities"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := GenerateVerificationCode(constant.ResetCodeLength)
		require.NoError(t, err)
		require.Len(t, code, constant.ResetCodeLength)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "non digit in %q", code)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 190, "codes should rarely repeat")
}

func TestGenerateVerificationCodeDigitSpread(t *testing.T) {
	counts := make([]int, 10)
	for i := 0; i < 2000; i++ {
		code, err := GenerateVerificationCode(constant.ResetCodeLength)
		require.NoError(t, err)
		for _, r := range code {
			counts[r-'0']++
		}
	}
	// 12000 digits, 1200 expected per bucket
	for digit, n := range counts {
		assert.InDelta(t, 1200, n, 250, "digit %d", digit)
	}
}

func TestPagination(t *testing.T) {
	db := dbtest.New(t)
	ctx := t.Context()

	var empty []entities.Goal
	pages, total, err := Pagination(&empty, 1, db, ctx, "id asc", "user_id = ?", 1)
	require.NoError(t, err)
	assert.Zero(t, pages)
	assert.Zero(t, total)

	for i := 0; i < 23; i++ {
		require.NoError(t, db.Create(&entities.Goal{UserID: 1, Title: "g", TargetAmount: decimal.NewFromInt(10)}).Error)
	}
	require.NoError(t, db.Create(&entities.Goal{UserID: 2, Title: "other", TargetAmount: decimal.NewFromInt(10)}).Error)

	var page3 []entities.Goal
	pages, total, err = Pagination(&page3, 3, db, ctx, "id asc", "user_id = ?", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.EqualValues(t, 23, total)
	assert.Len(t, page3, 3)

	var none []entities.Goal
	_, _, err = Pagination(&none, 4, db, ctx, "id asc", "user_id = ?", 1)
	assert.EqualError(t, err, constant.PAGE_NUMBER_OUT_OF_RANGE)

	_, _, err = Pagination(&none, 0, db, ctx, "id asc", "user_id = ?", 1)
	assert.EqualError(t, err, constant.INVALID_PAGE_NUMBER)
}

func TestLoadEnvReportsWhetherFileExists(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.False(t, LoadEnv())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CAPITAL_LOADENV_CHECK=loaded\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("CAPITAL_LOADENV_CHECK") })

	assert.True(t, LoadEnv())
	assert.Equal(t, "loaded", os.Getenv("CAPITAL_LOADENV_CHECK"))
}
