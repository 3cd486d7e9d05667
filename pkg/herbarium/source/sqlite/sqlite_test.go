package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cognicore/herbarium/pkg/herbarium/internalerr"
	"github.com/cognicore/herbarium/pkg/herbarium/source"
)

const fixtureSchema = `
CREATE TABLE plants (
	latin_name TEXT PRIMARY KEY,
	common_name TEXT,
	family TEXT,
	medicinal_rating INTEGER,
	edibility_rating INTEGER,
	other_uses_rating INTEGER,
	habit TEXT,
	height REAL,
	hardiness TEXT,
	growth TEXT,
	soil TEXT,
	shade TEXT,
	moisture TEXT,
	known_hazards TEXT,
	habitats TEXT,
	"range" TEXT,
	summary TEXT,
	physical_characteristics TEXT,
	synonyms TEXT,
	medicinal_uses TEXT,
	edible_uses TEXT,
	other_uses TEXT,
	cultivation_details TEXT,
	propagation TEXT
);
CREATE TABLE uses (category TEXT, name TEXT);
CREATE TABLE plant_uses (plant TEXT, category TEXT, name TEXT);
CREATE TABLE plant_care (plant TEXT, care TEXT);
`

type fixturePlant struct {
	latin, common          string
	medicinal, edibility   int
	summary, medicinalUses string
	otherUses, habit       string
	height                 any
}

func newFixture(t *testing.T, plants []fixturePlant, uses [][3]string, care [][2]string) string {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pfaf.sqlite")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fixtureSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	for _, p := range plants {
		var common any
		if p.common != "" {
			common = p.common
		}
		_, err := db.ExecContext(ctx, `INSERT INTO plants
			(latin_name, common_name, family, medicinal_rating, edibility_rating, other_uses_rating,
			 habit, height, summary, medicinal_uses, other_uses, cultivation_details)
			VALUES (?, ?, NULL, ?, ?, 0, ?, ?, ?, ?, ?, 'Easily grown')`,
			p.latin, common, p.medicinal, p.edibility, p.habit, p.height, p.summary, p.medicinalUses, p.otherUses)
		if err != nil {
			t.Fatalf("insert plant %s: %v", p.latin, err)
		}
	}
	seenUse := map[[2]string]bool{}
	for _, u := range uses {
		key := [2]string{u[1], u[2]}
		if !seenUse[key] {
			if _, err := db.ExecContext(ctx, `INSERT INTO uses (category, name) VALUES (?, ?)`, u[1], u[2]); err != nil {
				t.Fatalf("insert use: %v", err)
			}
			seenUse[key] = true
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO plant_uses (plant, category, name) VALUES (?, ?, ?)`, u[0], u[1], u[2]); err != nil {
			t.Fatalf("insert plant use: %v", err)
		}
	}
	for _, c := range care {
		if _, err := db.ExecContext(ctx, `INSERT INTO plant_care (plant, care) VALUES (?, ?)`, c[0], c[1]); err != nil {
			t.Fatalf("insert care: %v", err)
		}
	}
	return path
}

func openFixture(t *testing.T, path string) *Reader {
	t.Helper()
	r, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func latinNames(rows []source.Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.LatinName
	}
	return names
}

func TestOpenMissingSource(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing.sqlite"))
	if !errors.Is(err, internalerr.ErrSourceMissing) {
		t.Fatalf("Expected ErrSourceMissing, got %v", err)
	}
}

func TestReadPlantsPredicate(t *testing.T) {
	path := newFixture(t, []fixturePlant{
		{latin: "Rated medicinalis", common: "Rated", medicinal: 2},
		{latin: "Category only", common: "Category"},
		{latin: "Narrative only", common: "Narrative", medicinalUses: "A tea of the leaves"},
		{latin: "Summary trigger", common: "Summary", summary: "Used THERAPEUTICALLY"},
		{latin: "Other trigger", common: "Other", otherUses: "a treatment for fleas"},
		{latin: "Edible only", common: "Edible", edibility: 4, summary: "Tasty fruit"},
		{latin: "Culinary use", common: "Culinary"},
	}, [][3]string{
		{"Category only", source.MedicinalCategory, "Antiseptic"},
		{"Culinary use", "edible uses", "Fruit"},
	}, nil)

	r := openFixture(t, path)
	rows, err := r.ReadPlants(context.Background())
	if err != nil {
		t.Fatalf("ReadPlants: %v", err)
	}

	got := map[string]bool{}
	for _, name := range latinNames(rows) {
		got[name] = true
	}
	for _, want := range []string{"Rated medicinalis", "Category only", "Narrative only", "Summary trigger", "Other trigger"} {
		if !got[want] {
			t.Errorf("Expected %s to qualify, got %v", want, latinNames(rows))
		}
	}
	for _, reject := range []string{"Edible only", "Culinary use"} {
		if got[reject] {
			t.Errorf("%s should not qualify", reject)
		}
	}
}

func TestReadPlantsGroupsAndAggregates(t *testing.T) {
	path := newFixture(t, []fixturePlant{
		{latin: "Echinacea purpurea", common: "Purple Coneflower", medicinal: 3, medicinalUses: "antimicrobial tea"},
	}, [][3]string{
		{"Echinacea purpurea", source.MedicinalCategory, "Antiseptic"},
		{"Echinacea purpurea", source.MedicinalCategory, "Immunostimulant"},
	}, [][2]string{
		{"Echinacea purpurea", "Full sun"},
		{"Echinacea purpurea", "Well drained soil"},
		{"Echinacea purpurea", "Full sun"},
	})

	r := openFixture(t, path)
	rows, err := r.ReadPlants(context.Background())
	if err != nil {
		t.Fatalf("ReadPlants: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected one row per latin name, got %d", len(rows))
	}

	row := rows[0]
	uses := source.SplitList(row.UseNames)
	if len(uses) != 2 {
		t.Errorf("Expected 2 distinct use names, got %q", row.UseNames)
	}
	care := source.SplitList(row.CareRequirements)
	if len(care) != 2 {
		t.Errorf("Expected 2 distinct care requirements, got %q", row.CareRequirements)
	}
	if row.MedicinalRating != 3 || row.CommonName != "Purple Coneflower" {
		t.Errorf("Unexpected row: %+v", row)
	}
	if row.Family != "" {
		t.Errorf("NULL family should scan as empty, got %q", row.Family)
	}
	if row.CultivationDetails != "Easily grown" {
		t.Errorf("CultivationDetails = %q", row.CultivationDetails)
	}
}

func TestReadPlantsUseNamesFollowRowFilter(t *testing.T) {
	path := newFixture(t, []fixturePlant{
		{latin: "Plantago major", common: "Plantain"},
		{latin: "Salix alba", common: "White Willow", medicinal: 4},
	}, [][3]string{
		{"Plantago major", source.MedicinalCategory, "Vulnerary"},
		{"Plantago major", "edible uses", "Leaves"},
		{"Salix alba", source.MedicinalCategory, "Analgesic"},
		{"Salix alba", "other uses", "Basketry"},
	}, nil)

	rows, err := openFixture(t, path).ReadPlants(context.Background())
	if err != nil {
		t.Fatalf("ReadPlants: %v", err)
	}
	names := map[string]string{}
	for _, r := range rows {
		uses := source.SplitList(r.UseNames)
		sort.Strings(uses)
		names[r.LatinName] = strings.Join(uses, ",")
	}
	if names["Plantago major"] != "Vulnerary" {
		t.Errorf("Category-only plant should report medicinal use names only, got %q", names["Plantago major"])
	}
	if names["Salix alba"] != "Analgesic,Basketry" {
		t.Errorf("Rated plant should report every use name, got %q", names["Salix alba"])
	}
}

func TestReadPlantsOrdering(t *testing.T) {
	path := newFixture(t, []fixturePlant{
		{latin: "B low", common: "Beta", medicinal: 1},
		{latin: "A high", common: "Zeta", medicinal: 5},
		{latin: "C low", common: "Alpha", medicinal: 1},
	}, nil, nil)

	r := openFixture(t, path)
	rows, err := r.ReadPlants(context.Background())
	if err != nil {
		t.Fatalf("ReadPlants: %v", err)
	}

	want := []string{"A high", "C low", "B low"}
	got := latinNames(rows)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Order = %v, want %v", got, want)
	}
}

func TestReadPlantsHeight(t *testing.T) {
	path := newFixture(t, []fixturePlant{
		{latin: "Tall tree", medicinal: 1, height: 12.5},
		{latin: "Odd height", medicinal: 1, height: "1.5 m"},
		{latin: "No height", medicinal: 1, height: nil},
	}, nil, nil)

	r := openFixture(t, path)
	rows, err := r.ReadPlants(context.Background())
	if err != nil {
		t.Fatalf("ReadPlants: %v", err)
	}
	heights := map[string]string{}
	for _, row := range rows {
		heights[row.LatinName] = row.Height
	}
	if heights["Tall tree"] != "12.5" {
		t.Errorf("Height = %q, want 12.5", heights["Tall tree"])
	}
	if heights["Odd height"] != "1.5 m" {
		t.Errorf("Textual height should be kept verbatim, got %q", heights["Odd height"])
	}
	if h, ok := heights["No height"]; !ok || h != "" {
		t.Errorf("NULL height should read as empty, got %q (present=%v)", h, ok)
	}
}

func TestCheckSchema(t *testing.T) {
	path := newFixture(t, nil, nil, nil)
	r := openFixture(t, path)

	if err := r.CheckSchema(context.Background()); err != nil {
		t.Fatalf("CheckSchema on complete schema: %v", err)
	}
}

func TestCheckSchemaMissingColumn(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "broken.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	schema := strings.Replace(fixtureSchema, "\tpropagation TEXT\n", "\tplanting TEXT\n", 1)
	schema = strings.Replace(schema, "plant_care (plant TEXT, care TEXT)", "plant_care (plant TEXT)", 1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	db.Close()

	r := openFixture(t, path)
	err = r.CheckSchema(ctx)
	if !errors.Is(err, internalerr.ErrSchema) {
		t.Fatalf("Expected ErrSchema, got %v", err)
	}
	for _, col := range []string{"plants.propagation", "plant_care.care"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("Error should name %s: %v", col, err)
		}
	}
}

func TestReaderIsReadOnly(t *testing.T) {
	path := newFixture(t, nil, nil, nil)
	r := openFixture(t, path)

	_, err := r.db.ExecContext(context.Background(), `INSERT INTO uses (category, name) VALUES ('x', 'y')`)
	if err == nil {
		t.Error("Writes through the reader should fail")
	}
}

func TestColumnsUnknownTable(t *testing.T) {
	path := newFixture(t, nil, nil, nil)
	r := openFixture(t, path)

	if _, err := r.Columns(context.Background(), "plants; DROP TABLE plants"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestPlantsQueryArgs(t *testing.T) {
	query, args := plantsQuery()

	wantArgs := 1 + 2*len(source.TriggerWords)
	if len(args) != wantArgs {
		t.Fatalf("Expected %d args, got %d", wantArgs, len(args))
	}
	if strings.Count(query, "?") != wantArgs {
		t.Errorf("Placeholder count mismatch in query:\n%s", query)
	}
	if args[0] != source.MedicinalCategory {
		t.Errorf("First arg should be the medicinal category, got %v", args[0])
	}
}
