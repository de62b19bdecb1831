package sales

import (
	"errors"
	"testing"
	"time"

	"dagitim-backend/internal/cache"
	"dagitim-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreshProductReadThrough(t *testing.T) {
	store := cache.New[uint, models.Product](time.Minute)

	p, err := freshProduct(store, 1, func(uint) (models.Product, error) {
		return models.Product{Name: "Beyaz Peynir", PriceCash: 100}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Beyaz Peynir", p.Name)

	// İkinci okuma önbellekten gelir, loader çağrılmaz
	p, err = freshProduct(store, 1, func(uint) (models.Product, error) {
		t.Fatal("loader çağrılmamalıydı")
		return models.Product{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, p.PriceCash)
}

func TestFreshProductRejectsStaleCopy(t *testing.T) {
	// Süresi dolmuş kopya + erişilemeyen kaynak: bayat fiyattan satış
	// yapılmaz, satır reddedilir
	store := cache.New[uint, models.Product](time.Nanosecond)

	_, err := freshProduct(store, 1, func(uint) (models.Product, error) {
		return models.Product{Name: "Beyaz Peynir", PriceCash: 100}, nil
	})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	_, err = freshProduct(store, 1, func(uint) (models.Product, error) {
		return models.Product{}, errors.New("bağlantı koptu")
	})
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestFreshProductPropagatesLoaderError(t *testing.T) {
	store := cache.New[uint, models.Product](time.Minute)

	boom := errors.New("bağlantı koptu")
	_, err := freshProduct(store, 1, func(uint) (models.Product, error) {
		return models.Product{}, boom
	})
	assert.ErrorIs(t, err, boom)
}
