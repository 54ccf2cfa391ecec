package scene

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/gecore/ecs"
	"github.com/milk9111/gecore/ecs/component"
)

var (
	ErrUnknownFormat = eris.New("scene: unknown file format")
	ErrNoEntities    = eris.New("scene: document has no entities list")
)

// Format is a scene encoding.
type Format int

const (
	JSON Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return JSON, eris.Wrapf(ErrUnknownFormat, "%s", path)
	}
}

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return JSON, eris.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Serializer saves and loads the entities of a world.
type Serializer struct {
	world  *ecs.World
	codecs map[string]Codec
	order  []string
}

// NewSerializer builds a serializer with the built-in component codecs.
// scripts may be nil, in which case loaded scripts stay unbound.
func NewSerializer(w *ecs.World, scripts *component.ScriptRegistry) *Serializer {
	s := &Serializer{world: w, codecs: make(map[string]Codec)}
	for _, c := range builtinCodecs(scripts) {
		s.Register(c)
	}
	return s
}

// Register adds a codec, replacing any codec with the same name.
func (s *Serializer) Register(c Codec) {
	if _, ok := s.codecs[c.Name]; !ok {
		s.order = append(s.order, c.Name)
	}
	s.codecs[c.Name] = c
}

// Codecs returns codec names in registration order.
func (s *Serializer) Codecs() []string {
	return append([]string(nil), s.order...)
}

// Snapshot captures every live entity that has at least one saved component.
func (s *Serializer) Snapshot(name string) (Document, error) {
	doc := Document{Scene: name, Entities: []Entity{}}
	for e := range s.world.All() {
		ent := Entity{Components: map[string]any{}}
		if id, ok := ecs.TryGet[component.ID](s.world, e); ok {
			ent.ID = id.UUID.String()
		}
		for _, name := range s.order {
			c := s.codecs[name]
			if !c.Has(s.world, e) {
				continue
			}
			v, err := c.Encode(s.world, e)
			if err != nil {
				return Document{}, eris.Wrapf(err, "encode %s of %s", name, e)
			}
			ent.Components[name] = v
		}
		if len(ent.Components) == 0 && ent.ID == "" {
			continue
		}
		doc.Entities = append(doc.Entities, ent)
	}
	return doc, nil
}

// Restore creates one entity per document entity. It does not clear the
// world first. On error, entities created by this call are destroyed.
func (s *Serializer) Restore(doc Document) ([]ecs.Entity, error) {
	created := make([]ecs.Entity, 0, len(doc.Entities))
	rollback := func(err error) ([]ecs.Entity, error) {
		for _, e := range created {
			s.world.DestroyEntity(e)
		}
		return nil, err
	}

	for i, ent := range doc.Entities {
		e, err := s.world.CreateEntity()
		if err != nil {
			return rollback(eris.Wrapf(err, "entity %d", i))
		}
		created = append(created, e)

		if ent.ID != "" {
			id, err := uuid.Parse(ent.ID)
			if err != nil {
				return rollback(eris.Wrapf(err, "entity %d id", i))
			}
			if err := ecs.Set(s.world, e, component.ID{UUID: id}); err != nil {
				return rollback(err)
			}
		}
		if err := s.decodeComponents(e, ent.Components); err != nil {
			return rollback(eris.Wrapf(err, "entity %d", i))
		}
	}
	return created, nil
}

// RestoreEntity adds the components of ent to an existing entity.
func (s *Serializer) RestoreEntity(e ecs.Entity, components map[string]any) error {
	return s.decodeComponents(e, components)
}

func (s *Serializer) decodeComponents(e ecs.Entity, components map[string]any) error {
	for _, name := range s.order {
		raw, ok := components[name]
		if !ok {
			continue
		}
		if err := s.codecs[name].Decode(s.world, e, raw); err != nil {
			return eris.Wrapf(err, "decode %s", name)
		}
	}
	for name := range components {
		if _, ok := s.codecs[name]; !ok {
			s.world.Logger().Warn().Str("component", name).Stringer("entity", e).Msg("unknown component skipped")
		}
	}
	return nil
}

// Encode snapshots the world into bytes.
func (s *Serializer) Encode(name string, f Format) ([]byte, error) {
	doc, err := s.Snapshot(name)
	if err != nil {
		return nil, err
	}
	return Marshal(doc, f)
}

// Decode restores the entities in data and returns the scene name.
func (s *Serializer) Decode(data []byte, f Format) (string, error) {
	doc, err := Unmarshal(data, f)
	if err != nil {
		return "", err
	}
	if _, err := s.Restore(doc); err != nil {
		return "", err
	}
	return doc.Scene, nil
}

// Serialize writes the world to path. The format follows the extension and
// the scene is named after the file.
func (s *Serializer) Serialize(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data, err := s.Encode(name, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "scene: write %s", path)
	}
	s.world.Logger().Info().Str("path", path).Int("entities", s.world.EntityCount()).Msg("scene serialized")
	return nil
}

// Deserialize loads the scene at path into the world.
func (s *Serializer) Deserialize(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "scene: read %s", path)
	}
	name, err := s.Decode(data, f)
	if err != nil {
		return eris.Wrapf(err, "scene: load %s", path)
	}
	s.world.Logger().Info().Str("path", path).Str("scene", name).Msg("scene deserialized")
	return nil
}

// Marshal encodes doc without touching a world.
func Marshal(doc Document, f Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch f {
	case YAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "    ")
	}
	if err != nil {
		return nil, eris.Wrapf(err, "scene: marshal %s", f)
	}
	return data, nil
}

// Unmarshal decodes a document. A document without an entities list is
// rejected.
func Unmarshal(data []byte, f Format) (Document, error) {
	var raw struct {
		Scene    string    `json:"scene" yaml:"scene"`
		Entities *[]Entity `json:"entities" yaml:"entities"`
	}
	var err error
	switch f {
	case YAML:
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return Document{}, eris.Wrapf(err, "scene: unmarshal %s", f)
	}
	if raw.Entities == nil {
		return Document{}, ErrNoEntities
	}
	return Document{Scene: raw.Scene, Entities: *raw.Entities}, nil
}
