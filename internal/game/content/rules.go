package content

import "math"

// Asset palettes.
var (
	TreeModels = []string{
		"fantasy_town/tree.glb",
		"fantasy_town/tree-crooked.glb",
		"fantasy_town/tree-high.glb",
		"fantasy_town/tree-high-crooked.glb",
		"fantasy_town/tree-high-round.glb",
	}
	MeteorModels = []string{
		"models/obstacles/meteor.glb",
		"models/obstacles/meteor_detailed.glb",
		"models/obstacles/meteor_half.glb",
	}
)

const (
	WallModel         = "fantasy_town/wall.glb"
	RoofModel         = "fantasy_town/roof-gable.glb"
	SettlementTexture = "fantasy_town/Textures/colormap.png"
	DroneModel        = "models/drone.glb"
)

// Fixed placement constants.
const (
	treeScaleMin  float32 = 3
	treeScaleMax  float32 = 6
	treeClearance float32 = 0.5

	rockScaleMin   float32 = 0.8
	rockScaleMax   float32 = 1.5
	rockHalfWidth  float32 = 10
	rockHalfHeight float32 = 7.5

	obstacleAltMin    float32 = 200
	obstacleAltMax    float32 = 4000
	largeObstacleRoll float32 = 0.9
	largeObstacleMin  float32 = 12
	largeObstacleMax  float32 = 25
	smallObstacleMin  float32 = 2
	smallObstacleMax  float32 = 8
	obstacleRadius    float32 = 0.8

	settlementBuildings         = 8
	settlementRing      float32 = 150
	buildingScale       float32 = 6
	wallSink            float32 = 0.5
	roofHeight          float32 = 32
	towerScale          float32 = 20

	patrolAltitude float32 = 500
	droneScale     float32 = 1.8
)

// Rules holds the tunable counts and settlement exclusion radii.
type Rules struct {
	TreesMin, TreesMax int
	RocksMin, RocksMax int
	Obstacles          int

	// Candidates closer than these radii to the centre of a settlement region
	// are dropped. Zero disables the check for that kind.
	VegetationExclusion float32
	RockExclusion       float32
	ObstacleExclusion   float32
}

// DefaultRules returns the standard world density.
func DefaultRules() Rules {
	return Rules{
		TreesMin:            5,
		TreesMax:            10,
		RocksMin:            2,
		RocksMax:            4,
		Obstacles:           40,
		VegetationExclusion: 400,
		RockExclusion:       250,
		ObstacleExclusion:   400,
	}
}

const tau = 2 * math.Pi
