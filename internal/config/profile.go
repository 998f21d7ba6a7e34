package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"brokerage-service/internal/brokerage/model"
	"brokerage-service/internal/brokerage/service"
)

// Bank is the payment block printed at the bottom of every report.
type Bank struct {
	AccountName string `yaml:"account_name" json:"accountName"`
	AccountNo   string `yaml:"account_no" json:"accountNo"`
	BankName    string `yaml:"bank_name" json:"bankName"`
	IFSC        string `yaml:"ifsc" json:"ifsc"`
	UPI         string `yaml:"upi" json:"upi"`
}

// Profile describes the canvassing house issuing the bills.
type Profile struct {
	Name          string           `yaml:"name" json:"name"`
	Address       string           `yaml:"address" json:"address"`
	Phone         string           `yaml:"phone" json:"phone"`
	PAN           string           `yaml:"pan" json:"pan"`
	Bank          Bank             `yaml:"bank" json:"bank"`
	Overrides     []model.Override `yaml:"overrides" json:"overrides"`
	ShopLocations []string         `yaml:"shop_locations" json:"shopLocations"`
}

func DefaultProfile() Profile {
	return Profile{
		Name:    "Tejas Canvassing",
		Address: "No. 123, 1st Floor, 4th main Road, Yeshwanthpur, APMC Yard, Bengaluru - 560022",
		Phone:   "9916416995",
		PAN:     "AEBPA6445G",
		Bank: Bank{
			AccountName: "TEJAS CANVASSING",
			AccountNo:   "922020031617300",
			BankName:    "Axis Bank",
			IFSC:        "UTIB0004052",
			UPI:         "9916416995",
		},
		Overrides: append([]model.Override(nil), service.DefaultOverrides...),
		ShopLocations: []string{
			"MGB", "4TH", "5TH", "6TH", "BHADRA", "KAVERI", "NAGAWARA", "CKM", "NT PET",
			"KR PURM", "BDA", "MALUR", "DASANPURA", "MYSORE", "VELLORE", "HOSUR",
			"MADANPALLI", "CHINTAMANI", "CHANNAPATNA", "WHITEFIELD", "BTM LYT",
			"MUNIREDDYPALAYA", "SHIVAMOGA", "SALEM", "TUMKUR", "PALAMANER", "YPR",
			"DODDABALAPUR", "NELMANGALA", "MAKALI", "DHARAMAPURI", "SUBRAMANYA NAGAR",
			"KANAKAPURA", "CHIKMANGALORE", "VARTHURU", "5TH MAIN ROAD", "SARJAPUR",
			"TRICHY", "PALACODE", "ARSIKERE", "HOSADURGA", "GUDDIYATTAM", "ULLAL",
			"CHANNARAYAPATANA", "MG COMPLEX", "HOSAKOTTE", "TANJORE",
		},
	}
}

// LoadProfile reads a YAML profile over the defaults. An empty path returns
// the defaults; fields missing from the file keep their default value.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parse profile %s: %w", path, err)
	}
	for _, o := range p.Overrides {
		if o.Pattern == "" || o.Rate < 0 {
			return p, fmt.Errorf("profile %s: invalid override %+v", path, o)
		}
	}
	return p, nil
}
