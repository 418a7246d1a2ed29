package fieldtype

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  Type
	}{
		{"", Null},
		{"  ", Null},
		{"NULL", Null},
		{"NaN", Null},
		{"{1|2}", List},
		{"{Argiope|Araneus}", List},
		{"12", Integer},
		{"-7", Integer},
		{" 42 ", Integer},
		{"3.23e+07", Decimal},
		{"1.5", Decimal},
		{"1e400", Decimal},
		{"-0.25", Decimal},
		{"Inf", Decimal},
		{"null", Text},
		{"Dublin", Text},
		{"12a", Text},
		{"1,000", Text},
	} {
		if got := Classify(tc.value); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.value, got, tc.want)
		}
	}
}

func TestAuditCSV(t *testing.T) {
	data := `name,areaLand,areaMetro,uri
type,double,double,uri
meta,x,y,z
meta,x,y,z
Dublin,1.17e+08,NULL,http://dbpedia.org/Dublin
Cork,{1|2},3.5,http://dbpedia.org/Cork
Galway,,7,http://dbpedia.org/Galway
`
	types, err := AuditCSV(strings.NewReader(data), []string{"areaLand", "areaMetro"}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if got := types["areaLand"].String(); got != "[null, list, decimal]" {
		t.Errorf("areaLand: %s", got)
	}
	if got := types["areaMetro"].String(); got != "[null, integer, decimal]" {
		t.Errorf("areaMetro: %s", got)
	}
}

func TestAuditCSVUnknownField(t *testing.T) {
	_, err := AuditCSV(strings.NewReader("a,b\n1,2\n"), []string{"c"}, 0)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestAuditCSVShortRow(t *testing.T) {
	types, err := AuditCSV(strings.NewReader("a,b\n1\n"), []string{"b"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !types["b"].Has(Null) {
		t.Error(types["b"])
	}
}
