package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

type AdminFixture struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type CategoryFixture struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

type ProductFixture struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Price       string `mapstructure:"price"` // 丸め誤差を避けるため文字列
	Stock       int64  `mapstructure:"stock"`
	ImageURL    string `mapstructure:"image_url"`
	Category    string `mapstructure:"category"` // カテゴリ名
}

type Fixtures struct {
	Admin      AdminFixture      `mapstructure:"admin"`
	Categories []CategoryFixture `mapstructure:"categories"`
	Products   []ProductFixture  `mapstructure:"products"`
}

// LoadFixtures はpathのyamlを読む。空なら埋め込みの初期データ
func LoadFixtures(path string) (Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Fixtures{}, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (Fixtures, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return Fixtures{}, fmt.Errorf("parse seed fixtures: %w", err)
	}

	var f Fixtures
	if err := v.Unmarshal(&f); err != nil {
		return Fixtures{}, fmt.Errorf("decode seed fixtures: %w", err)
	}
	if err := f.validate(); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func (f Fixtures) validate() error {
	if f.Admin.Username == "" || f.Admin.Email == "" || f.Admin.Password == "" {
		return fmt.Errorf("seed fixtures: admin username, email and password are required")
	}
	for _, p := range f.Products {
		if _, err := decimal.NewFromString(p.Price); err != nil {
			return fmt.Errorf("seed fixtures: product %q has invalid price %q", p.Name, p.Price)
		}
		if p.Stock < 0 {
			return fmt.Errorf("seed fixtures: product %q has negative stock", p.Name)
		}
	}
	return nil
}
