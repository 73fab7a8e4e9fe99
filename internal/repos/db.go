package repos

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"tiflisi/internal/domain"
	applog "tiflisi/internal/log"
)

// timeLayout sorts lexically and is understood by sqlite's datetime().
const timeLayout = "2006-01-02 15:04:05.000"

func now() string { return time.Now().UTC().Format(timeLayout) }

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedSettings(db); err != nil {
		return nil, err
	}
	// idempotent; safe to run every start
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  image_urls TEXT NOT NULL DEFAULT '[]',
  category TEXT NOT NULL DEFAULT '',
  sizes TEXT NOT NULL DEFAULT '[]',
  colors TEXT NOT NULL DEFAULT '[]',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  data_ai_hint TEXT NOT NULL DEFAULT '',
  discount_percentage REAL NOT NULL DEFAULT 0,
  brand_name TEXT NOT NULL DEFAULT '',
  gender TEXT NOT NULL DEFAULT '',
  average_rating REAL NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category   ON products(LOWER(category));
CREATE INDEX IF NOT EXISTS idx_products_gender     ON products(gender);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  phone TEXT NOT NULL DEFAULT '',
  gender TEXT NOT NULL DEFAULT '',
  address_city TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  avatar_url TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL,
  session_id TEXT NOT NULL DEFAULT '',
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'Pending',
  address_line1 TEXT NOT NULL DEFAULT '',
  address_line2 TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  subtotal NUMERIC NOT NULL,
  shipping_cost NUMERIC NOT NULL DEFAULT 0,
  service_fee NUMERIC NOT NULL DEFAULT 0,
  total_amount NUMERIC NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  payment_method TEXT NOT NULL,
  transaction_id TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_orders_user       ON orders(user_id);
CREATE INDEX IF NOT EXISTS idx_orders_session    ON orders(session_id);

-- line snapshots; product rows may be deleted later
CREATE TABLE IF NOT EXISTS order_items(
  order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  line_no INTEGER NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  price NUMERIC NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  slug TEXT NOT NULL DEFAULT '',
  selected_size TEXT NULL,
  selected_color TEXT NULL,
  PRIMARY KEY (order_id, line_no)
);

-- Site configuration (single JSON document)
CREATE TABLE IF NOT EXISTS settings(
  id INTEGER PRIMARY KEY CHECK (id = 1),
  data TEXT NOT NULL,
  updated_at TEXT
);

-- Per-session key/value entries (cart, favorites)
CREATE TABLE IF NOT EXISTS kv_entries(
  namespace TEXT NOT NULL,
  key TEXT NOT NULL,
  value BLOB NOT NULL,
  updated_at TEXT,
  PRIMARY KEY (namespace, key)
);

CREATE TABLE IF NOT EXISTS contact_messages(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  subject TEXT NOT NULL,
  message TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Info(nil, "seed.products", map[string]any{"count": len(seedProducts)})

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	base := time.Now().UTC().Add(-time.Duration(len(seedProducts)) * time.Minute)
	for i, p := range seedProducts {
		// oldest first so the first entry is the oldest
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute).Format(timeLayout)
		if _, err := tx.NamedExec(insertProductSQL, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

var seedProducts = []domain.Product{
	{
		ID: "chokha-1", Slug: "chokha-black", Name: "ჩოხა",
		Description: "ტრადიციული შავი ჩოხა ხელნაკეთი ვაზნებით.",
		Price:       120, ImageURLs: domain.StringList{"/media/products/chokha-1/main.jpg"},
		Category: "ტრადიციული", Sizes: domain.StringList{"S", "M", "L", "XL"},
		Colors: domain.StringList{"black", "white"}, Stock: 12, Gender: "men",
		DataAIHint: "georgian chokha", BrandName: "თიფლისი",
	},
	{
		ID: "kaba-1", Slug: "kartuli-kaba", Name: "ქართული კაბა",
		Description: "გრძელი სადღესასწაულო კაბა ოქრომკედით.",
		Price:       180, ImageURLs: domain.StringList{"/media/products/kaba-1/main.jpg"},
		Category: "ტრადიციული", Sizes: domain.StringList{"XS", "S", "M", "L"},
		Colors: domain.StringList{"red", "white", "blue"}, Stock: 3, Gender: "women",
		DataAIHint: "georgian dress",
	},
	{
		ID: "papakha-1", Slug: "papakha", Name: "ფაფახი",
		Description: "ცხვრის ტყავის ფაფახი.",
		Price:       45, ImageURLs: domain.StringList{"/media/products/papakha-1/main.jpg"},
		Category: "აქსესუარები", Sizes: domain.StringList{}, Colors: domain.StringList{"black", "white"},
		Stock: 0, Gender: "men", DataAIHint: "papakha hat",
	},
	{
		ID: "scarf-1", Slug: "silk-scarf", Name: "აბრეშუმის შარფი",
		Description: "ნატურალური აბრეშუმის შარფი ორნამენტით.",
		Price:       35, ImageURLs: domain.StringList{"/media/products/scarf-1/main.jpg"},
		Category: "აქსესუარები", Sizes: domain.StringList{}, Colors: domain.StringList{},
		Stock: 20, Gender: "women", DataAIHint: "silk scarf",
	},
	{
		ID: "tshirt-1", Slug: "ornament-tshirt", Name: "ორნამენტიანი მაისური",
		Description: "ბამბის მაისური ქართული ასომთავრულით.",
		Price:       40, ImageURLs: domain.StringList{"/media/products/tshirt-1/main.jpg"},
		Category: "თანამედროვე", Sizes: domain.StringList{"S", "M", "L", "XL"},
		Colors: domain.StringList{"white", "black"}, Stock: 30, Gender: "men",
		DataAIHint: "ornament t-shirt", DiscountPercentage: 10,
	},
	{
		ID: "kids-chokha-1", Slug: "kids-chokha", Name: "საბავშვო ჩოხა",
		Description: "ჩოხა პატარებისთვის, 4-10 წლამდე.",
		Price:       85, ImageURLs: domain.StringList{"/media/products/kids-chokha-1/main.jpg"},
		Category: "ტრადიციული", Sizes: domain.StringList{"4", "6", "8", "10"},
		Colors: domain.StringList{"black"}, Stock: 4, Gender: "children",
		DataAIHint: "kids chokha",
	},
}

func seedSettings(db *sqlx.DB) error {
	raw, err := json.Marshal(domain.DefaultSettings())
	if err != nil {
		return err
	}
	_, err = db.Exec(`INSERT INTO settings(id,data,updated_at) VALUES(1,?,?) ON CONFLICT(id) DO NOTHING`, string(raw), now())
	return err
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, First, Last, Role, Hash string
	}
	mk := func(id, email, first, last, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, First: first, Last: last, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-nino", "nino@tiflisi.ge", "ნინო", "ბერიძე", domain.RoleUser, "Passw0rd!"),
		mk("u-giorgi", "giorgi@tiflisi.ge", "გიორგი", "კაპანაძე", domain.RoleUser, "Passw0rd!"),
		mk("u-admin", "admin@tiflisi.ge", "ადმინი", "თიფლისი", domain.RoleAdmin, "Passw0rd!"),
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,first_name,last_name,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.First, x.Last, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
