// Package catalog serves read-only dish and shop rows from a local SQLite
// database populated by an external ingestion process.
package catalog

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDishLimit and DefaultShopLimit are the page sizes used when the
// caller does not specify one.
const (
	DefaultDishLimit = 1050
	DefaultShopLimit = 200
)

// Dish is one row of the dishes table.
type Dish struct {
	Name                string `json:"name"`
	Image               string `json:"image"`
	RecommendationCount int    `json:"recommendationCount"`
	ShopName            string `json:"shopName"`
}

// Shop is one row of the shops table. Score is empty when the row has no
// rating.
type Shop struct {
	Name      string `json:"name"`
	AvgPrice  string `json:"avgPrice"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	DetailURL string `json:"detailUrl"`
	Score     string `json:"score"`
}

// Store wraps the read-only database handle. Safe for concurrent readers.
type Store struct {
	db *sql.DB
}

// Open opens the database at path. A missing file is an error; this store
// never creates or migrates the schema.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file does not exist: %s", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DishSort selects the dish ordering.
type DishSort string

const (
	DishSortRecommendation DishSort = "recommendation"
	DishSortName           DishSort = "name"
)

// DishQuery parameterizes ListDishes. Zero limits fall back to the default.
type DishQuery struct {
	Limit  int
	Offset int
	Shop   string
	Sort   DishSort
}

// ListDishes returns dishes, optionally filtered to shops whose name
// contains Shop, sorted and paginated. Any sort other than name means
// recommendation count descending.
func (s *Store) ListDishes(q DishQuery) ([]Dish, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultDishLimit
	}

	query := "SELECT name, image_url, recommendation_count, shop_name FROM dishes"
	var args []any

	if q.Shop != "" {
		query += " WHERE shop_name LIKE ?"
		args = append(args, "%"+q.Shop+"%")
	}

	if q.Sort == DishSortName {
		query += " ORDER BY name ASC"
	} else {
		query += " ORDER BY recommendation_count DESC"
	}

	query += " LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	dishes := []Dish{}
	for rows.Next() {
		var d Dish
		var image, shopName sql.NullString
		var count sql.NullInt64

		if err := rows.Scan(&d.Name, &image, &count, &shopName); err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		d.Image = image.String
		d.RecommendationCount = int(count.Int64)
		d.ShopName = shopName.String
		dishes = append(dishes, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dishes: %w", err)
	}

	return dishes, nil
}

// ShopSort selects the shop ordering.
type ShopSort string

const (
	ShopSortScore ShopSort = "score"
	ShopSortName  ShopSort = "name"
)

// ShopQuery parameterizes ListShops.
type ShopQuery struct {
	Limit  int
	Offset int
	Sort   ShopSort
}

// ListShops returns shops sorted and paginated. The score ordering places
// unrated shops last explicitly, since SQLite's default NULL ordering would
// put them first under DESC.
func (s *Store) ListShops(q ShopQuery) ([]Shop, error) {
	if q.Limit <= 0 {
		q.Limit = DefaultShopLimit
	}

	query := "SELECT name, avg_price, address, phone, detail_url, score FROM shops"
	if q.Sort == ShopSortName {
		query += " ORDER BY name ASC"
	} else {
		query += " ORDER BY score IS NULL, score DESC"
	}
	query += " LIMIT ? OFFSET ?"

	rows, err := s.db.Query(query, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query shops: %w", err)
	}
	defer rows.Close()

	shops := []Shop{}
	for rows.Next() {
		var sh Shop
		var avgPrice, address, phone, detailURL, score sql.NullString

		if err := rows.Scan(&sh.Name, &avgPrice, &address, &phone, &detailURL, &score); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		sh.AvgPrice = avgPrice.String
		sh.Address = address.String
		sh.Phone = phone.String
		sh.DetailURL = detailURL.String
		sh.Score = score.String
		shops = append(shops, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shops: %w", err)
	}

	return shops, nil
}
