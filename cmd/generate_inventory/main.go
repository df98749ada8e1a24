package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

var headers = []string{
	"Asset Tag ID", "Brand", "Category", "Model", "Device Name",
	"Description", "Status", "Purchase Date", "OS", "CPU",
}

type product struct {
	brand    string
	category string
	models   []string
	os       []string
}

var products = []product{
	{"Dell", "Laptop", []string{"Latitude 5420", "Latitude 7490", "Inspiron 15"}, []string{"Windows 10", "Windows 11"}},
	{"Dell", "Desktop", []string{"OptiPlex 7070", "OptiPlex 3080"}, []string{"Windows 10", "Windows 11"}},
	{"HP", "Laptop", []string{"EliteBook 840", "ProBook 450"}, []string{"Windows 10", "Windows 11"}},
	{"HP", "Printer", []string{"LaserJet Pro M404", "OfficeJet 9015"}, nil},
	{"Lenovo", "Laptop", []string{"ThinkPad T14", "IdeaPad 5"}, []string{"Windows 11"}},
	{"Apple", "Laptop", []string{"MacBook Air", "MacBook Pro 14"}, []string{"macOS"}},
	{"Apple", "Tablet", []string{"iPad 9th Gen", "iPad Air"}, []string{"iPadOS"}},
	{"Epson", "Projector", []string{"PowerLite 118", "EX3280"}, nil},
	{"Cisco", "Network Switch", []string{"Catalyst 2960", "Catalyst 9200"}, nil},
	{"Samsung", "Monitor", []string{"S24R350", "Odyssey G5"}, nil},
	{"Logitech", "Webcam", []string{"C920", "Brio 4K"}, nil},
	{"APC", "UPS", []string{"Back-UPS 600", "Smart-UPS 1500"}, nil},
}

var statuses = []string{
	"Available", "Checked Out", "Checked In", "Under Repair", "Reserved",
	"Broken", "Lost/Missing", "Donated", "Disposed", "Sold", "In Storage", "",
}

// brand spellings that differ from the canonical form
var brandNoise = map[string][]string{
	"HP":    {"hp", "Hewlett-Packard", "HEWLETT_PACKARD"},
	"Epson": {"Epsson", "EPSON"},
	"Dell":  {"dell", " DELL "},
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "Jan 2, 2006", "2006/01/02"}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) (err error) {
	fs := flag.NewFlagSet("generate_inventory", flag.ContinueOnError)
	rows := fs.Int("rows", 500, "number of devices")
	out := fs.String("out", "Inventory.csv", "output CSV path, - for stdout")
	seed := fs.Int64("seed", 0, "random seed, 0 for a random one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *rows < 1 {
		return fmt.Errorf("rows must be positive, got %d", *rows)
	}

	w := stdout
	if *out != "-" {
		f, cerr := os.Create(*out)
		if cerr != nil {
			return fmt.Errorf("failed to create %s: %w", *out, cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", *out, cerr)
			}
		}()
		w = f
	}

	faker := gofakeit.New(*seed)
	if err := writeInventory(w, faker, *rows, time.Now()); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	if *out != "-" {
		fmt.Fprintf(stdout, "Generated %d devices in %s\n", *rows, *out)
	}
	return nil
}

func writeInventory(w io.Writer, faker *gofakeit.Faker, rows int, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	for i := 1; i <= rows; i++ {
		if err := cw.Write(generateDevice(faker, i, now)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func generateDevice(faker *gofakeit.Faker, n int, now time.Time) []string {
	p := products[faker.Number(0, len(products)-1)]
	model := p.models[faker.Number(0, len(p.models)-1)]

	brand := p.brand
	if spellings, ok := brandNoise[brand]; ok && faker.Number(1, 100) <= 30 {
		brand = spellings[faker.Number(0, len(spellings)-1)]
	}
	category := p.category

	description := fmt.Sprintf("%s %s %s", p.brand, model, strings.ToLower(p.category))
	// missing gating fields, mostly recoverable from the description
	switch faker.Number(1, 100) {
	case 1, 2, 3, 4, 5, 6, 7, 8:
		brand = ""
	case 9, 10, 11, 12, 13:
		category = ""
	case 14, 15, 16:
		brand, category = "", ""
	case 17, 18:
		brand, category, description = "", "", faker.HipsterSentence(4)
	}

	osName := ""
	if len(p.os) > 0 {
		osName = p.os[faker.Number(0, len(p.os)-1)]
	}
	cpu := ""
	if p.category == "Laptop" || p.category == "Desktop" {
		cpu = faker.RandomString([]string{"Intel Core i5", "Intel Core i7", "AMD Ryzen 5", "Apple M1", "Apple M2"})
	}

	return []string{
		fmt.Sprintf("AT-%05d", n),
		brand,
		category,
		model,
		fmt.Sprintf("%s-%s", strings.ToUpper(faker.LetterN(3)), faker.DigitN(4)),
		description,
		statuses[faker.Number(0, len(statuses)-1)],
		purchaseDate(faker, now),
		osName,
		cpu,
	}
}

// purchaseDate mostly returns plausible dates, with some future, ancient, empty and garbage values
func purchaseDate(faker *gofakeit.Faker, now time.Time) string {
	roll := faker.Number(1, 100)
	switch {
	case roll <= 4:
		return ""
	case roll <= 7:
		return faker.Word()
	case roll <= 10:
		return faker.DateRange(now.AddDate(0, 1, 0), now.AddDate(3, 0, 0)).Format("2006-01-02")
	case roll <= 14:
		return faker.DateRange(time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2009, 12, 31, 0, 0, 0, 0, time.UTC)).Format("2006-01-02")
	}
	d := faker.DateRange(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC), now.AddDate(0, -1, 0))
	return d.Format(dateLayouts[faker.Number(0, len(dateLayouts)-1)])
}
