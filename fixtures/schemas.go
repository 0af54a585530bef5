// Package fixtures holds the golden sample set: one schema and one value per
// shape kind the format supports, plus a game-state document that nests all
// of them. Every implementation of the format encodes these same values and
// must produce the same bytes.
package fixtures

import s "github.com/unkn0wn-root/postcard/schema"

var (
	Primitives = s.Struct("Primitives",
		s.F("bool_field", s.Bool()),
		s.F("i8_field", s.I8()),
		s.F("i16_field", s.I16()),
		s.F("i32_field", s.I32()),
		s.F("i64_field", s.I64()),
		s.F("i128_field", s.I128()),
		s.F("u8_field", s.U8()),
		s.F("u16_field", s.U16()),
		s.F("u32_field", s.U32()),
		s.F("u64_field", s.U64()),
		s.F("u128_field", s.U128()),
		s.F("f32_field", s.F32()),
		s.F("f64_field", s.F64()),
		s.F("char_field", s.Char()),
		s.F("string_field", s.String()),
	)

	Collections = s.Struct("Collections",
		s.F("vec_u8", s.Bytes()),
		s.F("vec_string", s.Vec(s.String())),
		s.F("array_u32", s.Array(s.U32(), 4)),
		s.F("tuple_mixed", s.Tuple(s.U16(), s.String(), s.Bool())),
		s.F("option_some", s.Option(s.I32())),
		s.F("option_none", s.Option(s.I32())),
	)

	ComplexEnum = s.Enum("ComplexEnum",
		s.UnitVariant("UnitVariant"),
		s.NewtypeVariant("NewtypeVariant", s.U32()),
		s.TupleVariant("TupleVariant", s.String(), s.I32(), s.Bool()),
		s.StructVariant("StructVariant",
			s.F("x", s.F64()),
			s.F("y", s.F64()),
			s.F("label", s.String()),
		),
	)

	InnerStruct = s.Struct("InnerStruct",
		s.F("id", s.U64()),
		s.F("name", s.String()),
	)

	Nested = s.Struct("Nested",
		s.F("inner", InnerStruct),
		s.F("map", s.Map(s.String(), s.I32())),
		s.F("vec_of_structs", s.Vec(InnerStruct)),
	)

	EdgeCases = s.Struct("EdgeCases",
		s.F("empty_vec", s.Bytes()),
		s.F("empty_string", s.String()),
		s.F("zero", s.U64()),
		s.F("max_u8", s.U8()),
		s.F("min_i8", s.I8()),
		s.F("max_i8", s.I8()),
		s.F("max_u16", s.U16()),
		s.F("max_u32", s.U32()),
		s.F("negative", s.I32()),
	)

	NewtypeStruct = s.Newtype("NewtypeStruct", s.U64())
	UnitStruct    = s.UnitStruct("UnitStruct")
	TupleStruct   = s.TupleStruct("TupleStruct", s.String(), s.I32(), s.Bool())
)

// Game state document.
var (
	Coordinates = s.Struct("Coordinates",
		s.F("x", s.F64()),
		s.F("y", s.F64()),
		s.F("z", s.F64()),
	)

	Element = s.CLikeEnum("Element", "Fire", "Ice", "Lightning")

	Weapon = s.Struct("Weapon",
		s.F("name", s.String()),
		s.F("damage", s.U16()),
		s.F("element", s.Option(Element)),
	)

	Item = s.Enum("Item",
		s.StructVariant("Consumable", s.F("name", s.String()), s.F("quantity", s.U16())),
		s.NewtypeVariant("Weapon", Weapon),
		s.StructVariant("Armor", s.F("defense", s.U16()), s.F("durability", s.U8())),
	)

	Inventory = s.Struct("Inventory",
		s.F("items", s.Vec(Item)),
		s.F("capacity", s.U8()),
		s.F("gold", s.U32()),
	)

	Player = s.Struct("Player",
		s.F("id", s.U64()),
		s.F("name", s.String()),
		s.F("position", Coordinates),
		s.F("health", s.F32()),
		s.F("mana", s.U16()),
		s.F("inventory", Inventory),
		s.F("equipped", s.Option(Weapon)),
	)

	DragonColor = s.CLikeEnum("DragonColor", "Red", "Blue", "Green")

	DragonData = s.Struct("DragonData",
		s.F("color", DragonColor),
		s.F("age", s.U16()),
	)

	Enemy = s.Enum("Enemy",
		s.StructVariant("Goblin", s.F("id", s.U32()), s.F("aggro", s.Bool())),
		s.NewtypeVariant("Dragon", DragonData),
		s.UnitVariant("Skeleton"),
		s.StructVariant("Boss",
			s.F("name", s.String()),
			s.F("phase", s.U8()),
			s.F("health_percent", s.F32()),
		),
	)

	Location = s.Struct("Location",
		s.F("description", s.String()),
		s.F("coordinates", Coordinates),
		s.F("visited", s.Bool()),
	)

	BossInfo = s.Struct("BossInfo",
		s.F("name", s.String()),
		s.F("difficulty", s.U8()),
	)

	World = s.Struct("World",
		s.F("name", s.String()),
		s.F("locations", s.Map(s.String(), Location)),
		s.F("boss", s.Option(BossInfo)),
	)

	PlayerAction = s.Enum("PlayerAction",
		s.StructVariant("Move", s.F("from", Coordinates), s.F("to", Coordinates)),
		s.StructVariant("Attack", s.F("target_id", s.U32())),
		s.NewtypeVariant("UseItem", s.String()),
	)

	GameEvent = s.Enum("GameEvent",
		s.NewtypeVariant("PlayerAction", PlayerAction),
		s.StructVariant("EnemySpawn", s.F("enemy_type", s.String()), s.F("count", s.U16())),
		s.NewtypeVariant("ItemDropped", Item),
		s.NewtypeVariant("LocationDiscovered", s.String()),
	)

	Difficulty = s.CLikeEnum("Difficulty", "Easy", "Normal", "Hard")

	GameMetadata = s.Struct("GameMetadata",
		s.F("version", s.String()),
		s.F("timestamp", s.U64()),
		s.F("difficulty", Difficulty),
	)

	GameState = s.Struct("GameState",
		s.F("player", Player),
		s.F("enemies", s.Vec(Enemy)),
		s.F("world", World),
		s.F("events", s.Vec(GameEvent)),
		s.F("metadata", GameMetadata),
	)
)
