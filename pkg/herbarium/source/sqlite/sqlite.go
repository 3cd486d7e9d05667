package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/herbarium/pkg/herbarium/internalerr"
	"github.com/cognicore/herbarium/pkg/herbarium/source"
)

// plantColumns are the plants columns the reader selects, in scan order.
var plantColumns = []string{
	"latin_name",
	"common_name",
	"family",
	"medicinal_rating",
	"edibility_rating",
	"other_uses_rating",
	"habit",
	"height",
	"hardiness",
	"growth",
	"soil",
	"shade",
	"moisture",
	"known_hazards",
	"habitats",
	"range",
	"summary",
	"physical_characteristics",
	"synonyms",
	"medicinal_uses",
	"edible_uses",
	"other_uses",
	"cultivation_details",
	"propagation",
}

var columnIndex = func() map[string]int {
	idx := make(map[string]int, len(plantColumns))
	for i, c := range plantColumns {
		idx[c] = i
	}
	return idx
}()

// requiredColumns lists, per table, the columns the query depends on.
var requiredColumns = map[string][]string{
	"plants":     plantColumns,
	"plant_uses": {"plant", "category", "name"},
	"uses":       {"category", "name"},
	"plant_care": {"plant", "care"},
}

// Reader reads qualifying plants from a PFAF SQLite database.
type Reader struct {
	db *sql.DB
}

// Open opens the PFAF database at path for reading. A missing file is
// reported as internalerr.ErrSourceMissing; no database is created.
func Open(ctx context.Context, path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", internalerr.ErrSourceMissing, path)
		}
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// query_only is per connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, err
	}

	return &Reader{db: db}, nil
}

// Close closes the database connection
func (r *Reader) Close() error {
	return r.db.Close()
}

// Columns returns the column names of a table in declaration order.
func (r *Reader) Columns(ctx context.Context, table string) ([]string, error) {
	if _, ok := requiredColumns[table]; !ok {
		return nil, fmt.Errorf("%w: unknown table %q", internalerr.ErrInvalidInput, table)
	}
	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// CheckSchema verifies that every column the query reads exists. All
// missing columns are reported in one internalerr.ErrSchema error.
func (r *Reader) CheckSchema(ctx context.Context) error {
	tables := make([]string, 0, len(requiredColumns))
	for t := range requiredColumns {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var missing []string
	for _, table := range tables {
		cols, err := r.Columns(ctx, table)
		if err != nil {
			return err
		}
		have := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			have[c] = struct{}{}
		}
		for _, c := range requiredColumns[table] {
			if _, ok := have[c]; !ok {
				missing = append(missing, table+"."+c)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", internalerr.ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}

// plantsQuery joins plants with their uses and care requirements, keeps
// plants with any medicinal evidence, and collapses the joined values to
// one row per latin name.
func plantsQuery() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT\n")
	for _, c := range plantColumns {
		b.WriteString("\tp.\"" + c + "\",\n")
	}
	b.WriteString(`	GROUP_CONCAT(DISTINCT u.name) AS use_names,
	GROUP_CONCAT(DISTINCT pc.care) AS care_requirements
FROM plants p
LEFT JOIN plant_uses pu ON p.latin_name = pu.plant
LEFT JOIN uses u ON pu.category = u.category AND pu.name = u.name
LEFT JOIN plant_care pc ON p.latin_name = pc.plant
WHERE (
	p.medicinal_rating > 0
	OR u.category = ?
	OR (p.medicinal_uses IS NOT NULL AND p.medicinal_uses != '')`)

	args := []any{source.MedicinalCategory}
	for _, field := range []string{"summary", "other_uses"} {
		for _, w := range source.TriggerWords {
			b.WriteString("\n\tOR LOWER(p." + field + ") LIKE ?")
			args = append(args, "%"+strings.ToLower(w)+"%")
		}
	}
	b.WriteString(`
)
GROUP BY p.latin_name
ORDER BY p.medicinal_rating DESC, p.common_name ASC`)
	return b.String(), args
}

// ReadPlants runs the extraction query. Each returned row has a distinct,
// non-empty latin name.
func (r *Reader) ReadPlants(ctx context.Context) ([]source.Row, error) {
	query, args := plantsQuery()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plants: %w", err)
	}
	defer rows.Close()

	var out []source.Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plant: %w", err)
		}
		if row.LatinName == "" {
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query plants: %w", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows) (source.Row, error) {
	var (
		text    = make([]sql.NullString, len(plantColumns)+2)
		ratings [3]sql.NullInt64
		height  sql.NullString
	)

	dest := make([]any, 0, len(text))
	for i, c := range plantColumns {
		switch c {
		case "medicinal_rating":
			dest = append(dest, &ratings[0])
		case "edibility_rating":
			dest = append(dest, &ratings[1])
		case "other_uses_rating":
			dest = append(dest, &ratings[2])
		case "height":
			dest = append(dest, &height)
		default:
			dest = append(dest, &text[i])
		}
	}
	dest = append(dest, &text[len(plantColumns)], &text[len(plantColumns)+1])

	if err := rows.Scan(dest...); err != nil {
		return source.Row{}, err
	}

	col := func(name string) string {
		return text[columnIndex[name]].String
	}

	return source.Row{
		LatinName:               col("latin_name"),
		CommonName:              col("common_name"),
		Family:                  col("family"),
		MedicinalRating:         int(ratings[0].Int64),
		EdibilityRating:         int(ratings[1].Int64),
		OtherUsesRating:         int(ratings[2].Int64),
		Habit:                   col("habit"),
		Height:                  height.String,
		Hardiness:               col("hardiness"),
		Growth:                  col("growth"),
		Soil:                    col("soil"),
		Shade:                   col("shade"),
		Moisture:                col("moisture"),
		KnownHazards:            col("known_hazards"),
		Habitats:                col("habitats"),
		Range:                   col("range"),
		Summary:                 col("summary"),
		PhysicalCharacteristics: col("physical_characteristics"),
		Synonyms:                col("synonyms"),
		MedicinalUses:           col("medicinal_uses"),
		EdibleUses:              col("edible_uses"),
		OtherUses:               col("other_uses"),
		CultivationDetails:      col("cultivation_details"),
		Propagation:             col("propagation"),
		UseNames:                text[len(plantColumns)].String,
		CareRequirements:        text[len(plantColumns)+1].String,
	}, nil
}
