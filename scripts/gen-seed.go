//go:build ignore
// +build ignore

// Generates deterministic demo data for local development:
// one demo owner, a product catalog, and 90 days of sales.
// Output is SQL on stdout.
//
//	go run scripts/gen-seed.go > seed.sql
package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"
)

type product struct {
	Name, SKU, Category, Supplier string
	Price, Cost                   float64
	Stock, Threshold              int
	// DailyRate is the expected sales per day used to shape demand.
	DailyRate float64
}

var products = []product{
	{"Espresso Beans 1kg", "COF-ESP-1KG", "Coffee", "Alto Roasters", 24.50, 11.00, 140, 30, 4.5},
	{"Filter Blend 500g", "COF-FIL-500", "Coffee", "Alto Roasters", 13.90, 6.20, 90, 25, 3.8},
	{"Decaf Blend 500g", "COF-DEC-500", "Coffee", "Alto Roasters", 14.90, 6.90, 35, 15, 1.2},
	{"Ceramic Mug 350ml", "MUG-CER-350", "Drinkware", "Claymade Studio", 16.00, 5.50, 60, 20, 1.8},
	{"Travel Tumbler 450ml", "MUG-TRV-450", "Drinkware", "Claymade Studio", 29.00, 12.00, 48, 15, 1.1},
	{"Pour-Over Kettle", "EQP-KTL-001", "Equipment", "BrewGear Ltd", 79.00, 41.00, 18, 8, 0.4},
	{"Hand Grinder", "EQP-GRN-001", "Equipment", "BrewGear Ltd", 65.00, 33.00, 22, 10, 0.5},
	{"Paper Filters x100", "ACC-FLT-100", "Accessories", "BrewGear Ltd", 6.50, 2.10, 200, 50, 6.0},
	{"Digital Scale", "EQP-SCL-001", "Equipment", "BrewGear Ltd", 45.00, 21.00, 12, 6, 0.3},
	{"Cold Brew Bottle 1L", "EQP-CBB-1L", "Equipment", "Claymade Studio", 34.00, 15.00, 9, 10, 0.6},
	{"Matcha Powder 100g", "TEA-MAT-100", "Tea", "Leaf & Stone", 21.00, 9.50, 28, 12, 0.9},
	{"Loose Leaf Sampler", "TEA-SMP-001", "Tea", "Leaf & Stone", 18.50, 7.80, 3, 10, 0.7},
	{"Oat Milk 1L x6", "GRC-OAT-6PK", "Grocery", "Northfield Foods", 14.40, 8.90, 72, 24, 2.6},
	{"Chocolate Stirrers x12", "GRC-CHO-12", "Grocery", "Northfield Foods", 9.90, 4.20, 0, 15, 1.4},
	{"Gift Card Sleeve", "ACC-GFT-001", "Accessories", "Claymade Studio", 2.50, 0.60, 300, 40, 1.0},
}

const seedDays = 90

func main() {
	rng := rand.New(rand.NewSource(42))
	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -seedDays)

	var b strings.Builder
	b.WriteString("-- Demo seed: one owner, small coffee-shop catalog, 90 days of sales\n\n")

	// Demo owner. Password is "demo-password" hashed with bcrypt cost 10.
	b.WriteString("-- Owner (login: demo@intelliflow.test / demo-password)\n")
	b.WriteString("INSERT INTO users (email, hashed_password, full_name) VALUES " +
		"('demo@intelliflow.test', '$2a$10$CwTycUXWue0Thq9StjUM0uJ8ZkJW6g0S1Fk1K8mBq3eRrC1n1hW6y', 'Demo Owner') " +
		"ON CONFLICT (email) DO NOTHING;\n\n")

	b.WriteString("-- Products\n")
	for _, p := range products {
		fmt.Fprintf(&b, "INSERT INTO products (name, sku, category, price, cost, current_stock, min_stock_threshold, supplier, owner_id) "+
			"VALUES ('%s', '%s', '%s', %.2f, %.2f, %d, %d, '%s', (SELECT id FROM users WHERE email = 'demo@intelliflow.test')) "+
			"ON CONFLICT (sku) DO NOTHING;\n",
			escape(p.Name), p.SKU, p.Category, p.Price, p.Cost, p.Stock, p.Threshold, escape(p.Supplier))
	}

	b.WriteString("\n-- Sales\n")
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		weekendBoost := 1.0
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendBoost = 1.6
		}
		for _, p := range products {
			count := poisson(rng, p.DailyRate*weekendBoost)
			for i := 0; i < count; i++ {
				qty := 1 + rng.Intn(3)
				at := day.Add(time.Duration(8+rng.Intn(12)) * time.Hour)
				fmt.Fprintf(&b, "INSERT INTO sales (product_id, quantity, unit_price, total_amount, sale_date, order_id, owner_id) "+
					"SELECT p.id, %d, %.2f, %.2f, '%s', 'seed-%s-%s-%d', p.owner_id "+
					"FROM products p WHERE p.sku = '%s';\n",
					qty, p.Price, float64(qty)*p.Price, at.Format(time.RFC3339),
					p.SKU, day.Format("20060102"), i, p.SKU)
			}
		}
	}

	if _, err := os.Stdout.WriteString(b.String()); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
}

// poisson draws from a Poisson distribution via Knuth's method. Rates
// here are tiny so the loop terminates quickly.
func poisson(rng *rand.Rand, lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
