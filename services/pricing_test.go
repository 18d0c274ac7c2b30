package services

import (
	"testing"

	"edumart/apperrors"
	"edumart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectivePrice(t *testing.T) {
	assert.Equal(t, 29.99, EffectivePrice(models.Course{Price: 49.99, DiscountPrice: 29.99}))
	assert.Equal(t, 49.99, EffectivePrice(models.Course{Price: 49.99}))
	assert.Equal(t, 0.0, EffectivePrice(models.Course{Price: 0}))
}

func TestBundlePrice(t *testing.T) {
	courses := []models.Course{
		{Price: 50},
		{Price: 40},
		{Price: 30},
	}

	original, discounted, err := BundlePrice(courses, 20)
	require.NoError(t, err)
	assert.Equal(t, 120.0, original)
	assert.Equal(t, 96.0, discounted)
}

func TestBundlePriceUsesEffectivePrices(t *testing.T) {
	courses := []models.Course{
		{Price: 100, DiscountPrice: 50},
		{Price: 40},
	}

	original, discounted, err := BundlePrice(courses, 10)
	require.NoError(t, err)
	assert.Equal(t, 90.0, original)
	assert.Equal(t, 81.0, discounted)
}

func TestBundlePriceRejectsEmptySet(t *testing.T) {
	_, _, err := BundlePrice(nil, 20)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestBundlePriceRejectsBadPercent(t *testing.T) {
	courses := []models.Course{{Price: 50}}

	_, _, err := BundlePrice(courses, -1)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, _, err = BundlePrice(courses, 101)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSavings(t *testing.T) {
	bundle := models.Bundle{OriginalPrice: 120, BundlePrice: 96}
	assert.Equal(t, 24.0, Savings(bundle))
}
