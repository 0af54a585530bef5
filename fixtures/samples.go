package fixtures

import (
	"sort"

	p "github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/schema"
)

// Variant indexes, in declaration order.
const (
	ComplexUnit uint32 = iota
	ComplexNewtype
	ComplexTuple
	ComplexStruct
)

const (
	ItemConsumable uint32 = iota
	ItemWeapon
	ItemArmor
)

const (
	ElementFire uint32 = iota
	ElementIce
	ElementLightning
)

const (
	EnemyGoblin uint32 = iota
	EnemyDragon
	EnemySkeleton
	EnemyBoss
)

const (
	ColorRed uint32 = iota
	ColorBlue
	ColorGreen
)

const (
	EventPlayerAction uint32 = iota
	EventEnemySpawn
	EventItemDropped
	EventLocationDiscovered
)

const (
	ActionMove uint32 = iota
	ActionAttack
	ActionUseItem
)

const (
	DifficultyEasy uint32 = iota
	DifficultyNormal
	DifficultyHard
)

// Fixture is one golden sample: the artifact name, its schema and its value.
type Fixture struct {
	Name   string
	Schema *schema.Schema
	Value  p.Value
}

// All returns the full sample set in generation order. Values are built fresh
// on every call so callers may mutate them.
func All() []Fixture {
	return []Fixture{
		{"primitives.bin", Primitives, PrimitivesSample()},
		{"collections.bin", Collections, CollectionsSample()},
		{"enum_unit.bin", ComplexEnum, p.UnitVariant(ComplexUnit)},
		{"enum_newtype.bin", ComplexEnum, p.Enum(ComplexNewtype, p.Uint(999))},
		{"enum_tuple.bin", ComplexEnum, p.Enum(ComplexTuple, p.Tuple(p.String("tuple"), p.Int(-500), p.Bool(false)))},
		{"enum_struct.bin", ComplexEnum, p.Enum(ComplexStruct, p.Struct(p.Float64(3.14159), p.Float64(2.71828), p.String("point")))},
		{"nested.bin", Nested, NestedSample()},
		{"edge_cases.bin", EdgeCases, EdgeCasesSample()},
		{"newtype_struct.bin", NewtypeStruct, p.Uint(987654321)},
		{"unit_struct.bin", UnitStruct, p.Unit{}},
		{"tuple_struct.bin", TupleStruct, p.Tuple(p.String("tuple_data"), p.Int(777), p.Bool(true))},
		{"game_state.bin", GameState, GameStateSample()},
	}
}

// Lookup returns the fixture with the given artifact name. The ".bin" suffix
// may be omitted.
func Lookup(name string) (Fixture, bool) {
	for _, f := range All() {
		if f.Name == name || f.Name == name+".bin" {
			return f, true
		}
	}
	return Fixture{}, false
}

// Names returns the sorted artifact names.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, f := range all {
		out[i] = f.Name
	}
	sort.Strings(out)
	return out
}

func PrimitivesSample() p.Value {
	return p.Struct(
		p.Bool(true),
		p.Int(-42),
		p.Int(-1000),
		p.Int(-100000),
		p.Int(-10000000000),
		p.MustParseInt128("-123456789012345678901234567890"),
		p.Uint(255),
		p.Uint(65535),
		p.Uint(4294967295),
		p.Uint(18446744073709551615),
		p.MustParseUint128("340282366920938463463374607431768211455"),
		p.Float32(-32.005859375),
		p.Float64(-32.005859375),
		p.Char('🦀'),
		p.String("Hello, postcard!"),
	)
}

func CollectionsSample() p.Value {
	return p.Struct(
		p.Bytes{1, 2, 3, 4, 5},
		p.Seq{p.String("one"), p.String("two"), p.String("three")},
		p.Seq{p.Uint(100), p.Uint(200), p.Uint(300), p.Uint(400)},
		p.Tuple(p.Uint(42), p.String("test"), p.Bool(true)),
		p.Some(p.Int(12345)),
		p.None,
	)
}

func inner(id uint64, name string) p.Value {
	return p.Struct(p.Uint(id), p.String(name))
}

func NestedSample() p.Value {
	return p.Struct(
		inner(12345, "primary"),
		p.Map{
			{Key: p.String("alice"), Value: p.Int(100)},
			{Key: p.String("bob"), Value: p.Int(200)},
			{Key: p.String("charlie"), Value: p.Int(300)},
		},
		p.Seq{inner(1, "first"), inner(2, "second")},
	)
}

func EdgeCasesSample() p.Value {
	return p.Struct(
		p.Bytes{},
		p.String(""),
		p.Uint(0),
		p.Uint(255),
		p.Int(-128),
		p.Int(127),
		p.Uint(65535),
		p.Uint(4294967295),
		p.Int(-999999),
	)
}

func coords(x, y, z float64) p.Value {
	return p.Struct(p.Float64(x), p.Float64(y), p.Float64(z))
}

func weapon(name string, damage uint16, element p.Option) p.Value {
	return p.Struct(p.String(name), p.Uint(damage), element)
}

func consumable(name string, quantity uint16) p.Value {
	return p.Enum(ItemConsumable, p.Struct(p.String(name), p.Uint(quantity)))
}

func location(desc string, c p.Value, visited bool) p.Value {
	return p.Struct(p.String(desc), c, p.Bool(visited))
}

func GameStateSample() p.Value {
	player := p.Struct(
		p.Uint(12345),
		p.String("Hero"),
		coords(10.5, 20.3, 5.0),
		p.Float32(85.5),
		p.Uint(120),
		p.Struct( // inventory
			p.Seq{
				consumable("Health Potion", 5),
				p.Enum(ItemWeapon, weapon("Flaming Sword", 50, p.Some(p.UnitVariant(ElementFire)))),
				p.Enum(ItemArmor, p.Struct(p.Uint(30), p.Uint(95))),
			},
			p.Uint(20),
			p.Uint(1500),
		),
		p.Some(weapon("Frost Bow", 35, p.Some(p.UnitVariant(ElementIce)))),
	)

	enemies := p.Seq{
		p.Enum(EnemyGoblin, p.Struct(p.Uint(1), p.Bool(true))),
		p.Enum(EnemyDragon, p.Struct(p.UnitVariant(ColorRed), p.Uint(500))),
		p.UnitVariant(EnemySkeleton),
		p.Enum(EnemyBoss, p.Struct(p.String("Dark Lord"), p.Uint(2), p.Float32(65.8))),
	}

	world := p.Struct(
		p.String("Realm of Testing"),
		p.Map{
			{Key: p.String("forest"), Value: location("Dense woodland", coords(0, 0, 0), true)},
			{Key: p.String("cave"), Value: location("Dark cavern", coords(15, -5, -10), false)},
			{Key: p.String("castle"), Value: location("Ancient fortress", coords(100, 50, 20), false)},
		},
		p.Some(p.Struct(p.String("The Final Test"), p.Uint(10))),
	)

	events := p.Seq{
		p.Enum(EventPlayerAction, p.Enum(ActionMove, p.Struct(coords(0, 0, 0), coords(10.5, 20.3, 5.0)))),
		p.Enum(EventEnemySpawn, p.Struct(p.String("Goblin"), p.Uint(3))),
		p.Enum(EventItemDropped, consumable("Mana Potion", 2)),
		p.Enum(EventPlayerAction, p.Enum(ActionAttack, p.Struct(p.Uint(1)))),
		p.Enum(EventLocationDiscovered, p.String("cave")),
	}

	metadata := p.Struct(
		p.String("1.0.0"),
		p.Uint(1699000000),
		p.UnitVariant(DifficultyNormal),
	)

	return p.Struct(player, enemies, world, events, metadata)
}
