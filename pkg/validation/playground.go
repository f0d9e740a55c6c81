package validation

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

// CheckFunc implements a custom rule.
type CheckFunc func(value any, params []string, data map[string]any) bool

type customRule struct {
	check   CheckFunc
	message string
}

// Option configures the Playground validator.
type Option func(*Playground)

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Playground) {
		if logger != nil {
			p.logger = logger.Named("validation")
		}
	}
}

// WithTranslator installs a translation function consulted before the
// built-in messages.
func WithTranslator(fn TranslateFunc) Option {
	return func(p *Playground) {
		p.translate = fn
	}
}

// WithRule registers a custom rule with its message template.
func WithRule(name string, check CheckFunc, message string) Option {
	return func(p *Playground) {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" && check != nil {
			p.custom[name] = customRule{check: check, message: message}
		}
	}
}

// Playground validates rule strings with go-playground/validator tags where a
// tag exists and with local checks for cross-field and presence rules.
type Playground struct {
	validate  *validator.Validate
	logger    *zap.Logger
	translate TranslateFunc
	custom    map[string]customRule

	mu      sync.RWMutex
	regexps map[string]*regexp.Regexp
}

var _ Validator = (*Playground)(nil)

var alphaDashPattern = regexp.MustCompile(`^[\pL\pM\pN_-]+$`)

// tags maps rule names to go-playground tags applied to the string form of
// the value.
var tags = map[string]string{
	"email":      "email",
	"url":        "url",
	"uuid":       "uuid",
	"ip":         "ip",
	"json":       "json",
	"alpha":      "alpha",
	"alpha_num":  "alphanum",
	"alpha_dash": "alpha_dash",
	"lowercase":  "lowercase",
	"uppercase":  "uppercase",
	"numeric":    "numeric",
}

// New returns a Playground validator.
func New(opts ...Option) *Playground {
	v := validator.New()
	_ = v.RegisterValidation("alpha_dash", func(fl validator.FieldLevel) bool {
		return alphaDashPattern.MatchString(fl.Field().String())
	})

	p := &Playground{
		validate: v,
		logger:   zap.NewNop(),
		custom:   make(map[string]customRule),
		regexps:  make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Validate implements Validator. Fields are visited in sorted order so error
// maps are deterministic. Empty values only answer to presence rules
// (`required`, `accepted`); every other rule is skipped for them.
func (p *Playground) Validate(ctx context.Context, req Request) (Result, error) {
	result := Result{Passed: true}

	names := make([]string, 0, len(req.Rules))
	for name := range req.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		rules, err := Parse(req.Rules[name])
		if err != nil {
			return Result{}, fmt.Errorf("validation: field %q: %w", name, err)
		}
		messages, err := p.validateField(name, rules, req)
		if err != nil {
			return Result{}, err
		}
		if len(messages) > 0 {
			if result.Errors == nil {
				result.Errors = make(map[string][]string)
			}
			result.Errors[name] = messages
			result.Passed = false
		}
	}

	p.logger.Debug("validation finished",
		zap.Int("fields", len(names)),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}

func (p *Playground) validateField(name string, rules []Rule, req Request) ([]string, error) {
	value, _ := visibility.Lookup(req.Data, name)
	empty := isEmpty(value)
	numericContext := Has(rules, "numeric") || Has(rules, "integer")
	bail := Has(rules, "bail")

	var messages []string
	for _, rule := range rules {
		switch rule.Name {
		case "bail", "nullable", "sometimes":
			continue
		}
		if empty && rule.Name != "required" && rule.Name != "accepted" {
			continue
		}

		ok, key, values, err := p.check(rule, name, value, req.Data, numericContext)
		if err != nil {
			return nil, fmt.Errorf("validation: field %q: %w", name, err)
		}
		if ok {
			continue
		}
		messages = append(messages, p.message(name, rule, key, values, req))
		if bail || rule.Name == "required" {
			break
		}
	}
	return messages, nil
}

// check evaluates one rule. key selects the message template.
func (p *Playground) check(rule Rule, name string, value any, data map[string]any, numericContext bool) (bool, string, map[string]any, error) {
	values := map[string]any{}
	key := rule.Name

	if custom, ok := p.custom[rule.Name]; ok {
		values["values"] = strings.Join(rule.Params, ", ")
		return custom.check(value, rule.Params, data), key, values, nil
	}

	if tag, ok := tags[rule.Name]; ok {
		return p.validate.Var(stringValue(value), tag) == nil, key, values, nil
	}

	switch rule.Name {
	case "required":
		return !isEmpty(value), key, values, nil
	case "accepted":
		switch strings.ToLower(stringValue(value)) {
		case "yes", "on", "1", "true":
			return true, key, values, nil
		}
		return false, key, values, nil
	case "boolean":
		switch v := value.(type) {
		case bool:
			return true, key, values, nil
		default:
			switch stringValue(v) {
			case "0", "1", "true", "false":
				return true, key, values, nil
			}
		}
		return false, key, values, nil
	case "string":
		_, ok := value.(string)
		return ok, key, values, nil
	case "array":
		return isCollection(value), key, values, nil
	case "integer":
		s := stringValue(value)
		_, err := strconv.ParseInt(s, 10, 64)
		return err == nil, key, values, nil
	case "min", "max", "size", "between", "digits":
		return p.checkBounds(rule, value, numericContext, values)
	case "in", "not_in":
		found := false
		for _, candidate := range valuesOf(value) {
			for _, param := range rule.Params {
				if candidate == param {
					found = true
				}
			}
		}
		if rule.Name == "in" {
			return found, key, values, nil
		}
		return !found, key, values, nil
	case "confirmed":
		other, _ := visibility.Lookup(data, name+"_confirmation")
		return stringValue(other) == stringValue(value), key, values, nil
	case "same", "different":
		if len(rule.Params) != 1 {
			return false, key, values, fmt.Errorf("%w: %s expects one field", ErrInvalidRule, rule.Name)
		}
		other, _ := visibility.Lookup(data, rule.Params[0])
		values["other"] = humanize(rule.Params[0])
		equal := stringValue(other) == stringValue(value)
		if rule.Name == "same" {
			return equal, key, values, nil
		}
		return !equal, key, values, nil
	case "regex", "not_regex":
		if len(rule.Params) != 1 {
			return false, key, values, fmt.Errorf("%w: %s expects a pattern", ErrInvalidRule, rule.Name)
		}
		re, err := p.compile(rule.Params[0])
		if err != nil {
			return false, key, values, err
		}
		matched := re.MatchString(stringValue(value))
		if rule.Name == "regex" {
			return matched, key, values, nil
		}
		return !matched, key, values, nil
	case "date":
		return parseDate(stringValue(value)), key, values, nil
	case "date_format":
		if len(rule.Params) == 0 {
			return false, key, values, fmt.Errorf("%w: date_format expects a layout", ErrInvalidRule)
		}
		layout := strings.Join(rule.Params, ",")
		values["format"] = layout
		_, err := time.Parse(layout, stringValue(value))
		return err == nil, key, values, nil
	case "starts_with", "ends_with":
		s := stringValue(value)
		values["values"] = strings.Join(rule.Params, ", ")
		for _, param := range rule.Params {
			if rule.Name == "starts_with" && strings.HasPrefix(s, param) {
				return true, key, values, nil
			}
			if rule.Name == "ends_with" && strings.HasSuffix(s, param) {
				return true, key, values, nil
			}
		}
		return false, key, values, nil
	}

	return false, key, values, fmt.Errorf("%w %q", ErrUnknownRule, rule.Name)
}

// checkBounds maps size rules onto go-playground min/max/len tags. Numbers
// compare by value, strings by rune count, collections by length; numeric
// strings compare by value when the field also carries numeric or integer.
func (p *Playground) checkBounds(rule Rule, value any, numericContext bool, values map[string]any) (bool, string, map[string]any, error) {
	want := 1
	if rule.Name == "between" {
		want = 2
	}
	if len(rule.Params) != want {
		return false, rule.Name, values, fmt.Errorf("%w: %s expects %d parameter(s)", ErrInvalidRule, rule.Name, want)
	}
	for _, param := range rule.Params {
		if _, err := strconv.ParseFloat(param, 64); err != nil {
			return false, rule.Name, values, fmt.Errorf("%w: %s parameter %q is not numeric", ErrInvalidRule, rule.Name, param)
		}
	}

	if rule.Name == "digits" {
		values["digits"] = rule.Params[0]
		s := stringValue(value)
		if p.validate.Var(s, "number") != nil {
			return false, rule.Name, values, nil
		}
		return p.validate.Var(s, "len="+rule.Params[0]) == nil, rule.Name, values, nil
	}

	subject, flavour := boundSubject(value, numericContext)
	if subject == nil {
		return false, rule.Name, values, nil
	}

	var tag string
	key := rule.Name
	switch rule.Name {
	case "min":
		tag = "min=" + rule.Params[0]
		values["min"] = rule.Params[0]
		key = "min." + flavour
	case "max":
		tag = "max=" + rule.Params[0]
		values["max"] = rule.Params[0]
		key = "max." + flavour
	case "size":
		tag = "len=" + rule.Params[0]
		values["size"] = rule.Params[0]
	case "between":
		tag = "min=" + rule.Params[0] + ",max=" + rule.Params[1]
		values["min"], values["max"] = rule.Params[0], rule.Params[1]
	}
	if rule.Name == "size" && flavour == "numeric" {
		tag = "eq=" + rule.Params[0]
	}
	return p.validate.Var(subject, tag) == nil, key, values, nil
}

func (p *Playground) compile(pattern string) (*regexp.Regexp, error) {
	p.mu.RLock()
	re, ok := p.regexps[pattern]
	p.mu.RUnlock()
	if ok {
		return re, nil
	}

	expr := pattern
	if len(expr) >= 2 && expr[0] == '/' && strings.LastIndexByte(expr, '/') > 0 {
		expr = expr[1:strings.LastIndexByte(expr, '/')]
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: regex %q: %v", ErrInvalidRule, pattern, err)
	}

	p.mu.Lock()
	p.regexps[pattern] = re
	p.mu.Unlock()
	return re, nil
}

func (p *Playground) message(name string, rule Rule, key string, values map[string]any, req Request) string {
	label := req.Labels[name]
	if label == "" {
		label = humanize(name)
	}
	values["field"] = label

	if custom, ok := req.Messages[name+"."+rule.Name]; ok {
		return interpolate(custom, values)
	}
	if custom, ok := req.Messages[rule.Name]; ok {
		return interpolate(custom, values)
	}
	if p.translate != nil {
		translationKey := "validation." + key
		if translated := p.translate(translationKey, values); translated != "" && translated != translationKey {
			return translated
		}
	}
	if rule, ok := p.custom[rule.Name]; ok && rule.message != "" {
		return interpolate(rule.message, values)
	}
	if template, ok := defaultMessages[key]; ok {
		return interpolate(template, values)
	}
	return interpolate(fallbackMessage, values)
}

// boundSubject normalises value for go-playground size tags and names the
// message flavour.
func boundSubject(value any, numericContext bool) (any, string) {
	if n, ok := number(value); ok {
		return n, "numeric"
	}
	switch v := value.(type) {
	case string:
		if numericContext {
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return n, "numeric"
			}
		}
		return v, "string"
	}
	if isCollection(value) {
		return value, "array"
	}
	return nil, ""
}

func number(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func isCollection(value any) bool {
	if value == nil {
		return false
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		_, isBytes := value.([]byte)
		return !isBytes
	}
	return false
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	if isCollection(value) {
		return reflect.ValueOf(value).Len() == 0
	}
	return false
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func valuesOf(value any) []string {
	if isCollection(value) {
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Map {
			return nil
		}
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, stringValue(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{stringValue(value)}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

func parseDate(value string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return true
		}
	}
	return false
}
