package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/capital/finance/pkg/constant"
	"github.com/joho/godotenv"

	"gorm.io/gorm"
)

const PageSize = 10

var (
	ErrInvalidPage    = errors.New(constant.INVALID_PAGE_NUMBER)
	ErrPageOutOfRange = errors.New(constant.PAGE_NUMBER_OUT_OF_RANGE)
)

// LoadEnv reads .env from the working directory into the process
// environment and reports whether the file was there. It runs before the
// logger exists, so reporting is left to the caller.
func LoadEnv() bool {
	// Environment variables can be provided via Docker Compose or system
	return godotenv.Load() == nil
}

// Pagination loads page pageNumber (1-based) of the rows matching query into
// items, ordered by order. An empty result set has zero pages and accepts page 1.
func Pagination(items interface{}, pageNumber int, db *gorm.DB, c context.Context, order string, query interface{}, args ...interface{}) (int, int64, error) {
	if pageNumber <= 0 {
		return 0, 0, ErrInvalidPage
	}

	var totalCount int64
	if err := db.WithContext(c).Model(items).Where(query, args...).Count(&totalCount).Error; err != nil {
		return 0, 0, err
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(PageSize)))
	if totalPages == 0 && pageNumber == 1 {
		return 0, 0, nil
	}
	if pageNumber > totalPages {
		return 0, 0, ErrPageOutOfRange
	}

	offset := (pageNumber - 1) * PageSize
	if err := db.WithContext(c).Where(query, args...).Order(order).Limit(PageSize).Offset(offset).Find(items).Error; err != nil {
		return 0, 0, err
	}
	return totalPages, totalCount, nil
}

// GenerateVerificationCode returns length decimal digits drawn independently
// and uniformly from crypto/rand.
func GenerateVerificationCode(length int) (string, error) {
	const numbers = "0123456789"
	code := make([]byte, length)

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(numbers))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = numbers[num.Int64()]
	}

	return string(code), nil
}
