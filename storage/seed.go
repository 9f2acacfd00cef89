package storage

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// Seed rows for the three domain datasets. Real deployments replace these
// files wholesale; the watcher picks the change up and drops stale cache rows.

var institutionSeed = [][]any{
	{"University of Dhaka", "University", "Dhaka", 1921, "Arts, Science, Law, Medicine", 37000, "Public", "General"},
	{"Bangladesh University of Engineering and Technology", "University", "Dhaka", 1962, "Engineering, Architecture", 10000, "Public", "Engineering"},
	{"University of Chittagong", "University", "Chattogram", 1966, "Arts, Science, Business", 27000, "Public", "General"},
	{"Rajshahi University", "University", "Rajshahi", 1953, "Arts, Science, Agriculture", 38000, "Public", "General"},
	{"Khulna University", "University", "Khulna", 1991, "Science, Engineering, Arts", 7000, "Public", "General"},
	{"Sylhet Agricultural University", "University", "Sylhet", 2006, "Agriculture, Veterinary", 4000, "Public", "Agriculture"},
	{"North South University", "University", "Dhaka", 1992, "Business, Engineering, Science", 22000, "Private", "General"},
	{"BRAC University", "University", "Dhaka", 2001, "Business, Engineering, Public Health", 10000, "Private", "General"},
	{"Dhaka College", "College", "Dhaka", 1841, "Arts, Science", 25000, "Public", "General"},
	{"Notre Dame College", "College", "Dhaka", 1949, "Science, Arts, Commerce", 7000, "Private", "General"},
	{"Chittagong College", "College", "Chattogram", 1869, "Arts, Science", 18000, "Public", "General"},
	{"Dhaka Medical College", "College", "Dhaka", 1946, "Medicine", 1100, "Public", "Medical"},
	{"Bangladesh Civil Service Administration Academy", "Government Institution", "Dhaka", 1987, "Public Administration", 500, "Public", "Administration"},
}

var hospitalSeed = [][]any{
	{"Dhaka Medical College Hospital", "Teaching", "Dhaka", 2600, 1, "Cardiology, Neurology, Surgery", "Public", 1946},
	{"Square Hospital", "General", "Dhaka", 650, 1, "Cardiology, Oncology, Orthopedics", "Private", 2006},
	{"United Hospital", "General", "Dhaka", 500, 1, "Cardiology, Nephrology", "Private", 2006},
	{"Chittagong Medical College Hospital", "Teaching", "Chattogram", 1313, 1, "Surgery, Medicine, Pediatrics", "Public", 1957},
	{"Rajshahi Medical College Hospital", "Teaching", "Rajshahi", 1200, 1, "Medicine, Surgery", "Public", 1958},
	{"Khulna Medical College Hospital", "Teaching", "Khulna", 500, 1, "Medicine, Surgery", "Public", 1992},
	{"Sylhet MAG Osmani Medical College Hospital", "Teaching", "Sylhet", 900, 1, "Medicine, Cardiology", "Public", 1962},
	{"Ibn Sina Hospital", "General", "Dhaka", 220, 1, "Medicine, Gynecology", "Private", 1983},
	{"Rangpur Medical College Hospital", "Teaching", "Rangpur", 1000, 1, "Medicine, Surgery", "Public", 1970},
	{"Mymensingh Medical College Hospital", "Teaching", "Mymensingh", 1000, 1, "Medicine, Pediatrics", "Public", 1962},
	{"Upazila Health Complex Savar", "Clinic", "Dhaka", 50, 0, "Primary Care", "Public", 1985},
}

var restaurantSeed = [][]any{
	{"Kacchi Bhai", "Bangladeshi", "Dhaka", 4.5, "$$", "Kacchi Biryani, Borhani", 2015},
	{"Star Kabab", "Bangladeshi", "Dhaka", 4.2, "$", "Kabab, Tehari", 1965},
	{"Sultan's Dine", "Bangladeshi", "Dhaka", 4.6, "$$", "Kacchi Biryani", 2017},
	{"Pizza Roma", "Italian", "Dhaka", 4.1, "$$$", "Wood-fired Pizza, Pasta", 2010},
	{"Spaghetti Jazz", "Italian", "Dhaka", 4.3, "$$$", "Pasta, Risotto", 2004},
	{"Mermaid Cafe", "Continental", "Coxs Bazar", 4.4, "$$", "Seafood, Salads", 2003},
	{"Handi", "Indian", "Chattogram", 4.0, "$$", "Curry, Tandoori", 2008},
	{"Panshi Restaurant", "Bangladeshi", "Sylhet", 4.3, "$", "Local Curry, Bharta", 1995},
	{"Chillox", "American", "Dhaka", 4.2, "$$", "Burgers, Fries", 2014},
	{"Takeout", "American", "Dhaka", 4.0, "$$", "Burgers, Steaks", 2012},
	{"Green Leaf", "Chinese", "Khulna", 3.8, "$$", "Fried Rice, Chow Mein", 2001},
	{"Rose Garden", "Bangladeshi", "Rajshahi", 3.9, "$", "Rice, Fish Curry", 1998},
}

var domainInserts = map[string]struct {
	stmt string
	rows [][]any
}{
	"institutions": {
		stmt: `INSERT INTO institutions
               (name, type, location, established, degrees_offered, students_count, public_private, specialization)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rows: institutionSeed,
	},
	"hospitals": {
		stmt: `INSERT INTO hospitals
               (name, type, location, bed_capacity, emergency_services, specialties, public_private, established)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rows: hospitalSeed,
	},
	"restaurants": {
		stmt: `INSERT INTO restaurants
               (name, cuisine_type, location, rating, price_range, specialties, established)
               VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rows: restaurantSeed,
	},
}

// EnsureSeeded populates an empty domain database with the sample dataset.
// A non-empty table is left untouched. The optional progress bar is advanced
// once per inserted row.
func (d *DomainDB) EnsureSeeded(bar *progressbar.ProgressBar) error {
	count, err := d.RowCount()
	if err != nil {
		return fmt.Errorf("failed to count %s rows: %w", d.domain, err)
	}

	seed := domainInserts[d.domain]
	if count > 0 {
		if bar != nil {
			bar.Add(len(seed.rows))
		}
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, row := range seed.rows {
		if _, err := tx.Exec(seed.stmt, row...); err != nil {
			return fmt.Errorf("failed to seed %s: %w", d.domain, err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	return tx.Commit()
}

// SeedRowCount returns how many seed rows a domain ships with, so callers can
// size progress bars before seeding.
func SeedRowCount(domain string) int {
	return len(domainInserts[domain].rows)
}
