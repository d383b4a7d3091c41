package filter

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patients = `age,sex,chol,thal,note
63,1,233,fixed,a
37,1,250,normal,b
41,0,204,normal,c
56,1,236,reversable,d
57,0,354,normal,e
50,1,199,fixed,f
60,0,300,reversable,g
`

func load(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Err)
	return df
}

func widgetFor(t *testing.T, widgets []Widget, name string) Widget {
	t.Helper()
	for _, w := range widgets {
		if w.Name == name {
			return w
		}
	}
	t.Fatalf("no widget for %q", name)
	return Widget{}
}

func TestClassify(t *testing.T) {
	df := load(t, "age,sex,gender,thal\n63,1,M,fixed\n37,0,F,normal\n")

	kinds := map[string]Kind{}
	for _, col := range Classify(df) {
		kinds[col.Name] = col.Kind
	}

	assert.Equal(t, Numeric, kinds["age"])
	assert.Equal(t, Numeric, kinds["sex"], "numeric check runs before the sex name check")
	assert.Equal(t, BinaryCategory, kinds["gender"])
	assert.Equal(t, GenericCategory, kinds["thal"])
}

func TestPlanUsesFullTable(t *testing.T) {
	df := load(t, patients)
	widgets := Plan(df)
	require.Len(t, widgets, 5)

	age := widgetFor(t, widgets, "age")
	assert.Equal(t, 37.0, age.Min)
	assert.Equal(t, 63.0, age.Max)
	assert.True(t, age.Integer)
	assert.Equal(t, "1", age.Step())

	thal := widgetFor(t, widgets, "thal")
	assert.Equal(t, []string{"fixed", "normal", "reversable"}, thal.Choices)
}

func TestPlanSkipsEmptyNumericColumn(t *testing.T) {
	df := load(t, "a,b\n1,NaN\n2,NaN\n")
	widgets := Plan(df)

	for _, w := range widgets {
		if w.Name == "b" && w.Kind == Numeric {
			t.Fatalf("column without numeric values must not get a range widget")
		}
	}
}

func TestApplyDefaultsIsIdentity(t *testing.T) {
	df := load(t, patients)
	widgets := Plan(df)

	out, err := Apply(df, widgets, Selections{})
	require.NoError(t, err)
	assert.Equal(t, df.Records(), out.Records())

	explicit := Selections{
		"age":  Range(37, 63),
		"sex":  Range(0, 1),
		"chol": Range(199, 354),
		"thal": In("fixed", "normal", "reversable"),
	}
	out, err = Apply(df, widgets, explicit)
	require.NoError(t, err)
	assert.Equal(t, df.Records(), out.Records())
}

func TestNumericRangeIsInclusive(t *testing.T) {
	df := load(t, patients)
	out, err := Apply(df, Plan(df), Selections{"age": Range(50, 60)})
	require.NoError(t, err)

	assert.Equal(t, []float64{56, 57, 50, 60}, out.Col("age").Float())
}

func TestRangeIsClampedAndOrdered(t *testing.T) {
	df := load(t, patients)
	age := widgetFor(t, Plan(df), "age")

	eff := age.Effective(Range(90, 10), true)
	assert.Equal(t, 37.0, *eff.Lo)
	assert.Equal(t, 63.0, *eff.Hi)

	eff = age.Effective(Range(60, 50), true)
	assert.Equal(t, 50.0, *eff.Lo)
	assert.Equal(t, 60.0, *eff.Hi)
}

func TestConjunctionAcrossColumns(t *testing.T) {
	df := load(t, patients)
	sels := Selections{
		"age":  Range(40, 60),
		"sex":  Range(1, 1),
		"thal": In("fixed", "reversable"),
	}

	out, err := Apply(df, Plan(df), sels)
	require.NoError(t, err)
	assert.LessOrEqual(t, out.Nrow(), df.Nrow())

	assert.Equal(t, []string{"d", "f"}, out.Col("note").Records())
	for i := 0; i < out.Nrow(); i++ {
		age := out.Col("age").Elem(i).Float()
		assert.True(t, age >= 40 && age <= 60)
		assert.Equal(t, 1.0, out.Col("sex").Elem(i).Float())
		assert.Contains(t, []string{"fixed", "reversable"}, out.Col("thal").Elem(i).String())
	}
}

func TestEmptyCategoricalSelectionIsInert(t *testing.T) {
	df := load(t, patients)
	widgets := Plan(df)

	none := Selections{"thal": {ValuesSet: true}}
	out, err := Apply(df, widgets, none)
	require.NoError(t, err)
	assert.Equal(t, df.Nrow(), out.Nrow(), "deselecting every value leaves the column unfiltered")

	one := Selections{"thal": In("normal")}
	out, err = Apply(df, widgets, one)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "e"}, out.Col("note").Records())
}

func TestUnknownCategoricalValuesAreDropped(t *testing.T) {
	df := load(t, patients)
	thal := widgetFor(t, Plan(df), "thal")

	eff := thal.Effective(In("normal", "bogus"), true)
	assert.Equal(t, []string{"normal"}, eff.Values)
}

func TestBinaryCategorySingleChoice(t *testing.T) {
	df := load(t, "gender,age\nM,40\nF,50\nM,60\n")
	widgets := Plan(df)
	gender := widgetFor(t, widgets, "gender")

	assert.Equal(t, BinaryCategory, gender.Kind)
	assert.Equal(t, []string{"F", "M"}, gender.Choices)

	eff := gender.Effective(Selection{}, false)
	assert.Equal(t, "F", eff.Value, "default is the first sorted value")

	out, err := Apply(df, widgets, Selections{"gender": Equal("M")})
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 60}, out.Col("age").Float())

	out, err = Apply(df, widgets, Selections{"gender": Equal("X")})
	require.NoError(t, err)
	assert.Equal(t, []float64{50}, out.Col("age").Float())
}

func TestApplyStopsOnEmptyResult(t *testing.T) {
	df := load(t, patients)
	sels := Selections{
		"age":  Range(63, 63),
		"thal": In("normal"),
	}

	out, err := Apply(df, Plan(df), sels)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
	assert.Equal(t, df.Names(), out.Names())
}

func TestNumericPredicateRejectsMissing(t *testing.T) {
	df := load(t, "x,y\n1,a\nNaN,b\n3,c\n5,d\n")
	out, err := Apply(df, Plan(df), Selections{"x": Range(1, 3)})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, out.Col("y").Records())
}
