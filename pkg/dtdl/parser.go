// Package dtdl builds the ontology entity graph from DTDL interface documents.
//
// Only the subset the generator needs is modelled: Interfaces with their Properties,
// Relationships, extends chains and schema definitions. Telemetry, Commands and
// Components are accepted but ignored.
package dtdl

import (
	"regexp"
	"slices"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ekaya-inc/dtdl2oas/pkg/dtmi"
	"github.com/ekaya-inc/dtdl2oas/pkg/jsonutil"
	"github.com/ekaya-inc/dtdl2oas/pkg/models"
)

// DTDL keywords
const (
	keyID              = "@id"
	keyType            = "@type"
	keyName            = "name"
	keyDisplayName     = "displayName"
	keyDescription     = "description"
	keyContents        = "contents"
	keyExtends         = "extends"
	keySchemas         = "schemas"
	keySchema          = "schema"
	keyTarget          = "target"
	keyWritable        = "writable"
	keyMinMultiplicity = "minMultiplicity"
	keyMaxMultiplicity = "maxMultiplicity"

	typeInterface    = "Interface"
	typeProperty     = "Property"
	typeRelationship = "Relationship"
	typeTelemetry    = "Telemetry"
	typeCommand      = "Command"
	typeComponent    = "Component"
)

var complexKinds = map[string]models.ComplexKind{
	"Object": models.ComplexObject,
	"Array":  models.ComplexArray,
	"Enum":   models.ComplexEnum,
	"Map":    models.ComplexMap,
}

// namePattern is the DTDL v3 rule for content element names (at most 512 characters).
var namePattern = regexp.MustCompile(`^[a-zA-Z](?:[a-zA-Z0-9_]{0,510}[a-zA-Z0-9])?$`)

// Source is one ontology document and the name used to qualify its problems.
type Source struct {
	Name string
	Data []byte
}

type schemaReference struct {
	property *models.Property
	ref      dtmi.ID
	source   string
}

type extendsReference struct {
	iface  *models.Interface
	source string
}

// Parser accumulates entities from every source before resolving references,
// so documents may reference each other in any order.
type Parser struct {
	logger *zap.Logger

	entities []models.Entity
	seen     map[dtmi.ID]string
	schemas  []schemaReference
	extends  []extendsReference
	problems problems
}

// NewParser creates a parser. A nil logger disables logging.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		logger: logger,
		seen:   make(map[dtmi.ID]string),
	}
}

// Parse builds the entity graph from all sources. Any problem in any source fails the
// whole parse with a *ParseError listing every problem.
func Parse(sources []Source, logger *zap.Logger) (*models.Graph, error) {
	p := NewParser(logger)
	for _, src := range sources {
		p.AddSource(src)
	}
	return p.Graph()
}

// AddSource parses one document holding a single Interface or an array of them.
func (p *Parser) AddSource(src Source) {
	if !gjson.ValidBytes(src.Data) {
		p.problems.add(src.Name, "invalid JSON")
		return
	}

	root := gjson.ParseBytes(src.Data)
	switch {
	case root.IsArray():
		for i, item := range root.Array() {
			if !item.IsObject() {
				p.problems.add(src.Name, "element %d is not an object", i)
				continue
			}
			p.parseInterface(src.Name, item)
		}
	case root.IsObject():
		p.parseInterface(src.Name, root)
	default:
		p.problems.add(src.Name, "expected an Interface object or an array of Interfaces")
	}
}

// Graph resolves references and inheritance and returns the finished graph.
func (p *Parser) Graph() (*models.Graph, error) {
	if !p.problems.empty() {
		return nil, p.problems.asError()
	}

	graph, err := models.NewGraph(p.entities...)
	if err != nil {
		p.problems.add("", "%v", err)
		return nil, p.problems.asError()
	}

	p.resolveSchemas(graph)
	p.resolveExtends(graph)
	if !p.problems.empty() {
		return nil, p.problems.asError()
	}

	p.resolveInheritance(graph)
	if !p.problems.empty() {
		return nil, p.problems.asError()
	}

	p.logger.Debug("Ontology graph built",
		zap.Int("entities", graph.Len()),
		zap.Int("interfaces", len(graph.Interfaces())),
	)
	return graph, nil
}

func (p *Parser) register(source string, e models.Entity) {
	id := e.EntityID()
	if prev, exists := p.seen[id]; exists {
		p.problems.add(source, "duplicate identifier %s (first defined in %s)", id, prev)
		return
	}
	p.seen[id] = source
	p.entities = append(p.entities, e)
}

// parseID parses a required identifier field.
func (p *Parser) parseID(source, context string, value gjson.Result) (dtmi.ID, bool) {
	if !value.Exists() || value.Type != gjson.String {
		p.problems.add(source, "%s: missing or non-string %s", context, keyID)
		return dtmi.ID{}, false
	}
	id, err := dtmi.Parse(value.Str)
	if err != nil {
		p.problems.add(source, "%s: %v", context, err)
		return dtmi.ID{}, false
	}
	return id, true
}

// parseOptionalID parses an optional identifier field.
func (p *Parser) parseOptionalID(source, context string, value gjson.Result) (dtmi.ID, bool) {
	if !value.Exists() {
		return dtmi.ID{}, true
	}
	return p.parseID(source, context, value)
}

func (p *Parser) parseInterface(source string, obj gjson.Result) *models.Interface {
	id, ok := p.parseID(source, "interface", jsonutil.Field(obj, keyID))
	if !ok {
		return nil
	}
	context := "interface " + id.String()
	if !slices.Contains(jsonutil.StringList(jsonutil.Field(obj, keyType)), typeInterface) {
		p.problems.add(source, "%s: @type must be %q", context, typeInterface)
		return nil
	}

	iface := &models.Interface{
		ID:           id,
		DisplayNames: localizedTexts(jsonutil.Field(obj, keyDisplayName)),
		Description:  firstText(jsonutil.Field(obj, keyDescription)),
	}
	p.register(source, iface)

	for _, ext := range elements(jsonutil.Field(obj, keyExtends)) {
		switch {
		case ext.Type == gjson.String:
			extID, err := dtmi.Parse(ext.Str)
			if err != nil {
				p.problems.add(source, "%s: extends: %v", context, err)
				continue
			}
			iface.Extends = append(iface.Extends, extID)
		case ext.IsObject():
			if inline := p.parseInterface(source, ext); inline != nil {
				iface.Extends = append(iface.Extends, inline.ID)
			}
		default:
			p.problems.add(source, "%s: extends must be an identifier or an Interface", context)
		}
	}
	if len(iface.Extends) > 0 {
		p.extends = append(p.extends, extendsReference{iface: iface, source: source})
	}

	for _, def := range elements(jsonutil.Field(obj, keySchemas)) {
		schema := p.parseComplexSchema(source, context, def)
		if schema != nil && schema.ID.IsZero() {
			p.problems.add(source, "%s: schema definitions require an %s", context, keyID)
		}
	}

	names := make(map[string]bool)
	for i, content := range elements(jsonutil.Field(obj, keyContents)) {
		if !content.IsObject() {
			p.problems.add(source, "%s: contents[%d] is not an object", context, i)
			continue
		}
		name := jsonutil.FlexibleStringValue(jsonutil.Field(content, keyName))
		if !namePattern.MatchString(name) {
			p.problems.add(source, "%s: contents[%d]: invalid name %q", context, i, name)
			continue
		}
		if names[name] {
			p.problems.add(source, "%s: duplicate content name %q", context, name)
			continue
		}
		names[name] = true

		elementContext := context + "." + name
		switch kind := contentKind(content); kind {
		case typeProperty:
			if prop := p.parseProperty(source, elementContext, name, content); prop != nil {
				iface.Properties = append(iface.Properties, prop)
			}
		case typeRelationship:
			if rel := p.parseRelationship(source, elementContext, name, content); rel != nil {
				iface.Relationships = append(iface.Relationships, rel)
			}
		case typeTelemetry, typeCommand, typeComponent:
			p.logger.Debug("Ignoring unsupported content",
				zap.String("interface", id.String()),
				zap.String("name", name),
				zap.String("type", kind),
			)
		default:
			p.problems.add(source, "%s: unknown content type %v", elementContext, jsonutil.StringList(jsonutil.Field(content, keyType)))
		}
	}

	return iface
}

func (p *Parser) parseProperty(source, context, name string, obj gjson.Result) *models.Property {
	id, ok := p.parseOptionalID(source, context, jsonutil.Field(obj, keyID))
	if !ok {
		return nil
	}
	writable, err := jsonutil.OptionalBool(jsonutil.Field(obj, keyWritable))
	if err != nil {
		p.problems.add(source, "%s: %s: %v", context, keyWritable, err)
	}

	prop := &models.Property{
		ID:           id,
		Name:         name,
		DisplayNames: localizedTexts(jsonutil.Field(obj, keyDisplayName)),
		Description:  firstText(jsonutil.Field(obj, keyDescription)),
		Writable:     writable,
	}

	schemaValue := jsonutil.Field(obj, keySchema)
	switch {
	case schemaValue.Type == gjson.String:
		if kind, ok := models.ParsePrimitiveKind(schemaValue.Str); ok {
			prop.Schema = &models.PrimitiveSchema{Kind: kind}
			break
		}
		ref, err := dtmi.Parse(schemaValue.Str)
		if err != nil || ref.Namespace() == "" {
			p.problems.add(source, "%s: unknown schema %q", context, schemaValue.Str)
			return nil
		}
		p.schemas = append(p.schemas, schemaReference{property: prop, ref: ref, source: source})
	case schemaValue.IsObject():
		schema := p.parseComplexSchema(source, context, schemaValue)
		if schema == nil {
			return nil
		}
		prop.Schema = schema
	default:
		p.problems.add(source, "%s: missing %s", context, keySchema)
		return nil
	}

	if !id.IsZero() {
		p.register(source, prop)
	}
	return prop
}

func (p *Parser) parseRelationship(source, context, name string, obj gjson.Result) *models.Relationship {
	id, ok := p.parseOptionalID(source, context, jsonutil.Field(obj, keyID))
	if !ok {
		return nil
	}
	target, ok := p.parseOptionalID(source, context+" target", jsonutil.Field(obj, keyTarget))
	if !ok {
		return nil
	}
	writable, err := jsonutil.OptionalBool(jsonutil.Field(obj, keyWritable))
	if err != nil {
		p.problems.add(source, "%s: %s: %v", context, keyWritable, err)
	}

	rel := &models.Relationship{
		ID:           id,
		Name:         name,
		DisplayNames: localizedTexts(jsonutil.Field(obj, keyDisplayName)),
		Description:  firstText(jsonutil.Field(obj, keyDescription)),
		Writable:     writable,
		Target:       target,
	}

	valid := true
	rel.MinMultiplicity, err = jsonutil.OptionalInt(jsonutil.Field(obj, keyMinMultiplicity))
	if err != nil {
		p.problems.add(source, "%s: %s: %v", context, keyMinMultiplicity, err)
		valid = false
	}
	rel.MaxMultiplicity, err = jsonutil.OptionalInt(jsonutil.Field(obj, keyMaxMultiplicity))
	if err != nil {
		p.problems.add(source, "%s: %s: %v", context, keyMaxMultiplicity, err)
		valid = false
	}
	if rel.MinMultiplicity != nil && *rel.MinMultiplicity < 0 {
		p.problems.add(source, "%s: %s must not be negative", context, keyMinMultiplicity)
		valid = false
	}
	if rel.MaxMultiplicity != nil && *rel.MaxMultiplicity < 1 {
		p.problems.add(source, "%s: %s must be at least 1", context, keyMaxMultiplicity)
		valid = false
	}
	if valid && rel.MinMultiplicity != nil && rel.MaxMultiplicity != nil && *rel.MinMultiplicity > *rel.MaxMultiplicity {
		p.problems.add(source, "%s: %s exceeds %s", context, keyMinMultiplicity, keyMaxMultiplicity)
		valid = false
	}
	if !valid {
		return nil
	}

	if !id.IsZero() {
		p.register(source, rel)
	}
	return rel
}

func (p *Parser) parseComplexSchema(source, context string, obj gjson.Result) *models.ComplexSchema {
	if !obj.IsObject() {
		p.problems.add(source, "%s: schema must be an object", context)
		return nil
	}
	id, ok := p.parseOptionalID(source, context+" schema", jsonutil.Field(obj, keyID))
	if !ok {
		return nil
	}

	for _, t := range jsonutil.StringList(jsonutil.Field(obj, keyType)) {
		if kind, ok := complexKinds[t]; ok {
			schema := &models.ComplexSchema{ID: id, Kind: kind}
			if !id.IsZero() {
				p.register(source, schema)
			}
			return schema
		}
	}
	p.problems.add(source, "%s: unsupported schema type %v", context, jsonutil.StringList(jsonutil.Field(obj, keyType)))
	return nil
}

func (p *Parser) resolveSchemas(graph *models.Graph) {
	for _, ref := range p.schemas {
		e, ok := graph.Lookup(ref.ref)
		if !ok {
			p.problems.add(ref.source, "property %s: undefined schema %s", ref.property.Name, ref.ref)
			continue
		}
		switch schema := e.(type) {
		case *models.ComplexSchema:
			ref.property.Schema = schema
		case *models.Interface, *models.Property, *models.Relationship, *models.PrimitiveSchema:
			p.problems.add(ref.source, "property %s: %s is not a schema", ref.property.Name, ref.ref)
		default:
			p.problems.add(ref.source, "property %s: unexpected entity %T", ref.property.Name, e)
		}
	}
}

func (p *Parser) resolveExtends(graph *models.Graph) {
	for _, ext := range p.extends {
		for _, parent := range ext.iface.Extends {
			if _, err := graph.Interface(parent); err != nil {
				p.problems.add(ext.source, "interface %s extends %v", ext.iface.ID, err)
			}
		}
	}
}

// resolveInheritance computes the effective property and relationship sets of every
// interface. Extends cycles are reported as problems.
func (p *Parser) resolveInheritance(graph *models.Graph) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[dtmi.ID]int)

	var visit func(iface *models.Interface) bool
	visit = func(iface *models.Interface) bool {
		switch state[iface.ID] {
		case done:
			return true
		case visiting:
			p.problems.add("", "interface %s: extends cycle", iface.ID)
			return false
		}
		state[iface.ID] = visiting

		props := slices.Clone(iface.Properties)
		rels := slices.Clone(iface.Relationships)
		propNames := make(map[string]bool)
		relNames := make(map[string]bool)
		for _, prop := range props {
			propNames[prop.Name] = true
		}
		for _, rel := range rels {
			relNames[rel.Name] = true
		}

		for _, parentID := range iface.Extends {
			parent, err := graph.Interface(parentID)
			if err != nil {
				continue
			}
			if !visit(parent) {
				return false
			}
			for _, prop := range parent.AllProperties() {
				if !propNames[prop.Name] {
					propNames[prop.Name] = true
					props = append(props, prop)
				}
			}
			for _, rel := range parent.AllRelationships() {
				if !relNames[rel.Name] {
					relNames[rel.Name] = true
					rels = append(rels, rel)
				}
			}
		}

		iface.SetInherited(props, rels)
		state[iface.ID] = done
		return true
	}

	for _, iface := range graph.Interfaces() {
		if state[iface.ID] == unvisited {
			visit(iface)
		}
	}
}

// contentKind returns the DTDL base type of a content element, ignoring semantic types
// such as "Temperature" that may accompany it.
func contentKind(obj gjson.Result) string {
	for _, t := range jsonutil.StringList(jsonutil.Field(obj, keyType)) {
		switch t {
		case typeProperty, typeRelationship, typeTelemetry, typeCommand, typeComponent:
			return t
		}
	}
	return ""
}

// elements accepts a single value or an array of values.
func elements(r gjson.Result) []gjson.Result {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	if r.IsArray() {
		return r.Array()
	}
	return []gjson.Result{r}
}

func localizedTexts(r gjson.Result) []models.LocalizedText {
	pairs := jsonutil.StringOrObject(r, "")
	if len(pairs) == 0 {
		return nil
	}
	result := make([]models.LocalizedText, 0, len(pairs))
	for _, kv := range pairs {
		result = append(result, models.LocalizedText{Locale: kv.Key, Text: kv.Value})
	}
	return result
}

func firstText(r gjson.Result) string {
	pairs := jsonutil.StringOrObject(r, "")
	for _, kv := range pairs {
		if kv.Key == "" || kv.Key == "en" {
			return kv.Value
		}
	}
	if len(pairs) > 0 {
		return pairs[0].Value
	}
	return ""
}
