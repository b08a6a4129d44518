package soilcheck_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	v "github.com/Gobd/soilcheck"
	"github.com/Gobd/soilcheck/transform"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============ Test types ============

type plot struct {
	Name string
}

func (p *plot) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Name, v.Required, v.Length(1, 50)),
	}
}

type plotRegistry map[string]plot

// --- site → []sensor ---

type sensor struct {
	ID string
}

func (p *sensor) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.ID, v.Required),
	}
}

type site struct {
	Name   string
	Sensors []sensor
}

func (s *site) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&s.Name, v.Required),
		v.Field(&s.Sensors, v.Unique(func(i int) any { return s.Sensors[i].ID }, "sensor ids")),
	}
}

// --- farm → []site → []sensor ---

type farm struct {
	Sites []site
}

func (f *farm) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&f.Sites),
	}
}

// --- embedded Ruler ---

type tracked struct {
	SerialNo string
}

func (t *tracked) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&t.SerialNo, v.Required),
	}
}

type calibration struct {
	tracked
	Offset float64
}

func (c *calibration) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&c.tracked),
		v.Field(&c.Offset, v.Min(-5), v.Max(5)),
	}
}

// --- ValueRuler ---

type soilTexture string

func (soilTexture) ValueRules() []v.Rule {
	return []v.Rule{v.Required, v.In(soilTexture("sand"), soilTexture("loam"), soilTexture("clay"))}
}

type sample struct {
	Texture soilTexture
}

func (s *sample) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&s.Texture),
	}
}

type depthCM int

func (depthCM) ValueRules() []v.Rule {
	return []v.Rule{v.Required, v.Min(5), v.Max(200)}
}

type core struct {
	Depth depthCM
}

func (c *core) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&c.Depth),
	}
}

// --- map of slices ---

type sensorGroups struct {
	Groups map[string][]sensor
}

func (g *sensorGroups) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&g.Groups),
	}
}

// --- ContextRuler ---

type maxSensorsKey struct{}

type rollout struct {
	Sensors []string
}

func (r *rollout) Rules(ctx context.Context) []*v.FieldRules {
	limit, _ := ctx.Value(maxSensorsKey{}).(int)
	return []*v.FieldRules{
		v.Field(&r.Sensors, v.Length(1, limit)),
	}
}

// --- Normalizers ---

type station struct {
	Name  string
	Sensor sensorLabel
}

func (s *station) Normalize() {
	transform.StructTrimSpace(s)
}

func (s *station) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&s.Name, v.Required),
		v.Field(&s.Sensor),
	}
}

type sensorLabel struct {
	Label string
}

// Normalize runs after the parent's, so Label is already trimmed.
func (p *sensorLabel) Normalize() {
	p.Label = strings.ToUpper(p.Label)
}

func (p *sensorLabel) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Label, v.Required, v.Length(1, 8)),
	}
}

func fieldErrs(t *testing.T, err error) validation.Errors {
	t.Helper()
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "want validation.Errors, got %T: %v", err, err)
	return errs
}

// ============ Tests ============

func TestValidate_Ruler(t *testing.T) {
	assert.NoError(t, v.Validate(&plot{Name: "north"}))

	err := v.Validate(&plot{})
	assert.Contains(t, fieldErrs(t, err), "Name")
}

func TestValidate_StructByValue(t *testing.T) {
	assert.NoError(t, v.Validate(plot{Name: "north"}))
	assert.Error(t, v.Validate(plot{}))
}

func TestValidate_NonRuler(t *testing.T) {
	assert.NoError(t, v.Validate("anything"))
	assert.NoError(t, v.Validate(nil))
}

func TestValidate_SliceOfRulers(t *testing.T) {
	assert.NoError(t, v.Validate(&[]plot{{Name: "a"}, {Name: "b"}}))

	err := v.Validate(&[]plot{{Name: "a"}, {}})
	assert.Contains(t, fieldErrs(t, err), "1")
}

func TestValidate_MapOfRulers(t *testing.T) {
	assert.NoError(t, v.Validate(&plotRegistry{"n": {Name: "north"}, "s": {Name: "south"}}))

	err := v.Validate(&plotRegistry{"n": {Name: "north"}, "bad": {}})
	assert.Contains(t, fieldErrs(t, err), "bad")
}

func TestValidate_NilAndEmptyCollections(t *testing.T) {
	var nilSlice []plot
	var nilMap plotRegistry
	var nilPtr *plot
	assert.NoError(t, v.Validate(&nilSlice))
	assert.NoError(t, v.Validate(&[]plot{}))
	assert.NoError(t, v.Validate(&nilMap))
	assert.NoError(t, v.Validate(&plotRegistry{}))
	assert.NoError(t, v.Validate(nilPtr))
}

func TestValidate_NestedChildren(t *testing.T) {
	assert.NoError(t, v.Validate(&site{Name: "s1", Sensors: []sensor{{ID: "a"}, {ID: "b"}}}))

	err := v.Validate(&site{Name: "s1", Sensors: []sensor{{ID: "a"}, {}}})
	errs := fieldErrs(t, err)
	require.Contains(t, errs, "Sensors")
	assert.Contains(t, fieldErrs(t, errs["Sensors"]), "1")
}

func TestValidate_UniqueChildren(t *testing.T) {
	err := v.Validate(&site{Name: "s1", Sensors: []sensor{{ID: "a"}, {ID: "a"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be unique: sensor ids")
}

func TestValidate_DeeplyNested(t *testing.T) {
	f := farm{Sites: []site{
		{Name: "s1", Sensors: []sensor{{ID: "a"}}},
		{Name: "s2", Sensors: []sensor{{ID: "b"}, {}}},
	}}
	err := v.Validate(&f)
	require.Error(t, err)

	assert.Equal(t, map[string]string{"Sites.1.Sensors.1.ID": "cannot be blank"}, v.FieldErrors(err))
}

func TestValidate_Embedded(t *testing.T) {
	assert.NoError(t, v.Validate(&calibration{tracked: tracked{SerialNo: "X1"}, Offset: 1.5}))

	err := v.Validate(&calibration{Offset: 1.5})
	assert.Error(t, err)

	err = v.Validate(&calibration{tracked: tracked{SerialNo: "X1"}, Offset: 9})
	assert.Contains(t, fieldErrs(t, err), "Offset")
}

func TestValidate_ValueRuler(t *testing.T) {
	assert.NoError(t, v.Validate(&sample{Texture: "loam"}))

	err := v.Validate(&sample{Texture: "gravel"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")

	err = v.Validate(&sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be blank")
}

func TestValidate_ValueRuler_Range(t *testing.T) {
	tests := []struct {
		depth depthCM
		ok    bool
	}{
		{30, true},
		{5, true},
		{200, true},
		{0, false},
		{3, false},
		{250, false},
	}
	for _, tt := range tests {
		err := v.Validate(&core{Depth: tt.depth})
		if tt.ok {
			assert.NoError(t, err, tt.depth)
		} else {
			assert.Error(t, err, tt.depth)
		}
	}
}

func TestValidate_MapOfSlices(t *testing.T) {
	assert.NoError(t, v.Validate(&sensorGroups{Groups: map[string][]sensor{"east": {{ID: "a"}}}}))

	err := v.Validate(&sensorGroups{Groups: map[string][]sensor{
		"east": {{ID: "a"}},
		"west": {{ID: "b"}, {}},
	}})
	assert.Equal(t, map[string]string{"Groups.west.1.ID": "cannot be blank"}, v.FieldErrors(err))
}

func TestValidateCtx_ContextRuler(t *testing.T) {
	ctx := context.WithValue(context.Background(), maxSensorsKey{}, 2)

	assert.NoError(t, v.ValidateCtx(ctx, &rollout{Sensors: []string{"a", "b"}}))
	assert.Error(t, v.ValidateCtx(ctx, &rollout{Sensors: []string{"a", "b", "c"}}))
}

func TestValidateStruct(t *testing.T) {
	p := plot{Name: ""}
	err := v.ValidateStruct(&p, []*v.FieldRules{v.Field(&p.Name, v.Required)})
	assert.Contains(t, fieldErrs(t, err), "Name")
}

func TestFieldErrors(t *testing.T) {
	assert.Nil(t, v.FieldErrors(nil))
	assert.Nil(t, v.FieldErrors(errors.New("plain")))

	err := v.Validate(&plot{})
	assert.Equal(t, map[string]string{"Name": "cannot be blank"}, v.FieldErrors(err))
}

// --- standalone rules ---

func TestUnique(t *testing.T) {
	vals := []string{"a", "b", "c"}
	assert.NoError(t, v.Unique(func(i int) any { return vals[i] }, "ids").Validate(&vals))

	dup := []string{"a", "b", "a"}
	err := v.Unique(func(i int) any { return dup[i] }, "ids").Validate(dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be unique")

	var nilPtr *[]string
	assert.NoError(t, v.Unique(func(int) any { return "" }, "ids").Validate(nilPtr))
	assert.Error(t, v.Unique(func(i int) any { return i }, "ids").Validate("not a list"))
}

func TestIn(t *testing.T) {
	assert.NoError(t, v.In("sand", "loam").Validate("loam"))

	err := v.In("sand", "loam").Validate("gravel")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of")
	assert.Contains(t, err.Error(), "'sand'")
	assert.Contains(t, err.Error(), "got 'gravel'")
}

func TestEach(t *testing.T) {
	r := v.Each(v.In("corn", "soy"))
	assert.NoError(t, r.Validate([]string{"corn", "soy"}))
	assert.Error(t, r.Validate([]string{"corn", "rice"}))
}

func TestDateRule(t *testing.T) {
	d := v.Date("2006-01-02")
	assert.NoError(t, d.Validate("2024-03-15"))
	assert.Error(t, d.Validate("15/03/2024"))
	assert.NoError(t, d.Validate(""))
}

func TestDocRulesAlwaysPass(t *testing.T) {
	for _, r := range []v.Rule{v.Describe("d"), v.Default("x"), v.Example("e")} {
		assert.NoError(t, r.Validate("anything"))
		assert.NoError(t, r.Validate(nil))
	}
}

func TestBy(t *testing.T) {
	even := v.By(func(value any) error {
		if value.(int)%2 != 0 {
			return errors.New("must be even")
		}
		return nil
	}, "even numbers only")
	assert.NoError(t, even.Validate(4))
	assert.EqualError(t, even.Validate(3), "must be even")
}

// --- UnmarshalAndValidate / DecodeAndValidate ---

func TestUnmarshalAndValidate(t *testing.T) {
	var p plot
	require.NoError(t, v.UnmarshalAndValidate([]byte(`{"Name":"north"}`), &p))
	assert.Equal(t, "north", p.Name)

	assert.Error(t, v.UnmarshalAndValidate([]byte(`{bad json`), &p))

	err := v.UnmarshalAndValidate([]byte(`{"Name":""}`), &p)
	assert.Contains(t, fieldErrs(t, err), "Name")
}

func TestUnmarshalAndValidate_NoNormalizerKeepsSpace(t *testing.T) {
	var p plot
	require.NoError(t, v.UnmarshalAndValidate([]byte(`{"Name":"  north  "}`), &p))
	assert.Equal(t, "  north  ", p.Name)
}

func TestUnmarshalAndValidate_NormalizesRecursively(t *testing.T) {
	var s station
	require.NoError(t, v.UnmarshalAndValidate([]byte(`{"Name":"  ridge  ","Sensor":{"Label":"  p7a  "}}`), &s))
	assert.Equal(t, "ridge", s.Name)
	assert.Equal(t, "P7A", s.Sensor.Label)
}

func TestUnmarshalAndValidate_NormalizeBeforeValidate(t *testing.T) {
	// Nine characters with padding, three once trimmed.
	var s station
	assert.NoError(t, v.UnmarshalAndValidate([]byte(`{"Name":"ridge","Sensor":{"Label":"   p7a   "}}`), &s))
}

func TestDecodeAndValidate(t *testing.T) {
	var s station
	require.NoError(t, v.DecodeAndValidate(strings.NewReader(`{"Name":" ridge ","Sensor":{"Label":"p1"}}`), &s))
	assert.Equal(t, "ridge", s.Name)

	var bad station
	err := v.DecodeAndValidateContext(context.Background(), strings.NewReader(`{"Name":"ridge","Sensor":{}}`), &bad)
	assert.Equal(t, map[string]string{"Sensor.Label": "cannot be blank"}, v.FieldErrors(err))
}

// --- MissingRules ---

type checkMissing struct {
	Name    string
	Texture string `json:"texture"`
	Depth   int
	TraceID string `validate:"-"` //nolint:revive // read by MissingRules
	Cache   string `json:"-"`
}

func (c *checkMissing) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&c.Name, v.Required),
	}
}

func TestMissingRules(t *testing.T) {
	assert.Empty(t, v.MissingRules(&plot{}))
	assert.ElementsMatch(t, []string{"texture", "Depth"}, v.MissingRules(&checkMissing{}))
	assert.Empty(t, v.MissingRules(&checkMissing{}, "texture", "Depth"))
	assert.Empty(t, v.MissingRules(&calibration{}))
	assert.Nil(t, v.MissingRules(&struct{ A string }{}))
}
