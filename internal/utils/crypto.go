// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// ListingIDSuffixLimit bounds the random suffix of a listing id to 0..9999.
const ListingIDSuffixLimit = 10000

// GenerateListingID returns "<unix millis>_<random suffix>". Collisions are
// possible in theory and are not detected.
func GenerateListingID(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(ListingIDSuffixLimit))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "_" + strconv.FormatInt(n.Int64(), 10), nil
}
