package service

import (
	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/utils"
)

// ExtractBuyerLocations maps every buyer to the shop location of its first
// row. Later rows never overwrite; blank buyers or locations are skipped.
func ExtractBuyerLocations(rows []model.Row) model.LocationMap {
	m := make(model.LocationMap)
	for _, r := range rows {
		k := utils.Key(r.Buyer)
		loc := utils.Sanitize(r.ShopLoc)
		if k == "" || loc == "" {
			continue
		}
		if _, ok := m[k]; !ok {
			m[k] = loc
		}
	}
	return m
}
