package timeline

// Split timing of the scene that tears the view apart, in milliseconds from the start
const (
	SplitSceneStart      = 25000 + 13*1400
	SplitSceneSplitStart = 4000
	SplitStart           = SplitSceneStart + SplitSceneSplitStart
	SplitDuration        = 4000
	SplitEnd             = SplitStart + SplitDuration
)

// IntroLength is the number of milliseconds the distort table covers
const IntroLength = 167000 + SplitDuration + 1000

type knot [3]int

// trackBuilder appends scene blocks in the integer track format
type trackBuilder struct {
	data []int
}

func (b *trackBuilder) header(kind SceneKind, mode Mode, duration int) {
	b.data = append(b.data, int(kind), int(mode), 0, duration)
}

func (b *trackBuilder) segment(duration int, knots ...knot) {
	for _, k := range knots {
		b.data = append(b.data, k[0], k[1], k[2], duration)
	}
	b.data = append(b.data, 0, 0, 0, 0)
}

// shot is a linear two-knot move over the whole scene
func (b *trackBuilder) shot(kind SceneKind, duration int, pos, eye, up [2]knot) {
	b.header(kind, Linear, duration)
	b.segment(duration, pos[0], pos[1])
	b.segment(duration, eye[0], eye[1])
	b.segment(duration, up[0], up[1])
}

// sketch is a static camera looking down -z, used by the pencil sketch scenes
func (b *trackBuilder) sketch(kind SceneKind, duration int) {
	b.shot(kind, duration,
		[2]knot{{0, 0, 0}, {0, 0, 0}},
		[2]knot{{0, 0, -1}, {0, 0, -1}},
		[2]knot{{0, 1, 0}, {0, 1, 0}})
}

func (b *trackBuilder) end() []int {
	return append(b.data, 0, 0, 0, 0)
}

// DemoTrack returns the camera track table of the full intro
func DemoTrack() []int {
	var b trackBuilder
	for n := 1; n <= 13; n++ {
		b.sketch(HuygensSketch(n), 1400)
	}

	b.shot(SceneSpace, 3000,
		[2]knot{{-58861, 24096, 145296}, {-60123, 24046, 144691}},
		[2]knot{{-58457, 23902, 144402}, {-59714, 23861, 143798}},
		[2]knot{{51, 981, -186}, {48, 983, -178}})
	b.shot(SceneSpace, 3000,
		[2]knot{{-21481, 12740, 34409}, {-21735, 13238, 34077}},
		[2]knot{{-21119, 12517, 33790}, {-21370, 12997, 33467}},
		[2]knot{{143, 955, -257}, {155, 948, -278}})
	b.shot(SceneSpace, 3000,
		[2]knot{{6819, -7896, -14168}, {7793, -8157, -13484}},
		[2]knot{{6571, -7318, -13390}, {7512, -7555, -12736}},
		[2]knot{{-88, 656, -749}, {-76, 626, -775}})
	b.shot(SceneSpace, 4000,
		[2]knot{{-8748, 1214, 12000}, {-8963, 1399, 11724}},
		[2]knot{{-8144, 1060, 11218}, {-8333, 1229, 10966}},
		[2]knot{{18, 985, -172}, {30, 982, -186}})
	b.shot(SceneSpace, 4000,
		[2]knot{{-4259, 1304, 7692}, {-4238, 1307, 7685}},
		[2]knot{{-3858, 556, 8222}, {-3908, 579, 8286}},
		[2]knot{{877, 481, 7}, {899, 437, 28}})

	// In Saturn's shadow: a curved pass looking at the planet
	b.header(SceneSpace, Bezier, 8000)
	b.segment(4000, knot{-29000, 11500, -27000}, knot{-25000, 11500, -31000}, knot{-21000, 11500, -35000})
	b.segment(4000, knot{0, 0, 0}, knot{0, 0, 0}, knot{0, 0, 0})
	b.segment(4000, knot{0, 1, 0}, knot{0, 1, 0}, knot{0, 1, 0})

	b.shot(SceneSpace, 8000,
		[2]knot{{-77279, 410, 95400}, {-77418, 354, 95377}},
		[2]knot{{-76797, 31, 94610}, {-76797, 80, 94643}},
		[2]knot{{-349, 744, -568}, {-375, 719, -583}})
	b.shot(SceneSpace, 8000,
		[2]knot{{29189, 45, -3666}, {29159, 43, -3668}},
		[2]knot{{29159, -278, -4612}, {29263, -291, -4604}},
		[2]knot{{-44, 945, -322}, {-45, 939, -341}})
	b.shot(SceneSpace, 4000,
		[2]knot{{4778, 26, 23308}, {4772, 28, 23300}},
		[2]knot{{3927, -426, 23571}, {3999, -483, 23676}},
		[2]knot{{-428, 314, -846}, {-547, 241, -800}})
	b.shot(SceneSpace, 2000,
		[2]knot{{4702, 53, 23282}, {4696, 45, 23281}},
		[2]knot{{5219, -452, 23972}, {5286, -363, 23977}},
		[2]knot{{660, -275, -697}, {652, -266, -709}})

	b.shot(SceneEnceladus, 6000,
		[2]knot{{13059, 2075, -34597}, {10861, 1929, -33506}},
		[2]knot{{12710, 1604, -33787}, {10529, 1483, -32675}},
		[2]knot{{129, 832, 539}, {142, 848, 512}})
	b.shot(SceneEnceladus, 7000,
		[2]knot{{-4014, 1496, -734}, {-4383, 1382, -186}},
		[2]knot{{-3081, 1110, -632}, {-3451, 996, -84}},
		[2]knot{{302, 905, 300}, {302, 905, 300}})
	b.shot(SceneEnceladus, 8000,
		[2]knot{{3528, 936, -4630}, {2966, 924, -4004}},
		[2]knot{{3927, 1017, -3735}, {3365, 1005, -3109}},
		[2]knot{{-72, 996, 59}, {-80, 995, 54}})
	b.shot(SceneEnceladus, 7000,
		[2]knot{{-2877, 2026, -1589}, {-3014, 1622, -1649}},
		[2]knot{{-2190, 1671, -955}, {-2429, 2026, -946}},
		[2]knot{{339, 929, 147}, {-199, 910, -361}})

	b.shot(SceneSpace, 6000,
		[2]knot{{4698, 21, 23299}, {4697, 26, 23291}},
		[2]knot{{5307, -136, 24076}, {5331, -194, 24032}},
		[2]knot{{608, -534, -585}, {549, -544, -633}})
	b.shot(SceneSpace, 2000,
		[2]knot{{19901, 73505, 94435}, {21102, 74440, 94886}},
		[2]knot{{19445, 72798, 93893}, {20649, 73733, 94342}},
		[2]knot{{-303, 699, -646}, {-309, 700, -642}})

	b.shot(SceneSimple, 5000,
		[2]knot{{18311, 72268, 93837}, {40389, 89448, 102137}},
		[2]knot{{17852, 71561, 93300}, {39985, 88750, 101547}},
		[2]knot{{-295, 696, -653}, {-411, 718, -559}})
	b.shot(SceneSimple, 5000,
		[2]knot{{3268, 23976, -80003}, {-10023, 26774, -79426}},
		[2]knot{{3320, 23662, -79055}, {-9819, 26403, -78519}},
		[2]knot{{-328, 891, 312}, {-303, 856, -417}})
	b.shot(SceneSimple, 7000,
		[2]knot{{17254, 16851, 33147}, {8813, 16812, 40617}},
		[2]knot{{16826, 16476, 32325}, {8581, 16407, 39733}},
		[2]knot{{-385, 913, -133}, {-298, 936, -186}})

	b.shot(SceneClouds, 6000,
		[2]knot{{4277, 6100, 5397}, {4272, 5833, 2918}},
		[2]knot{{4927, 5509, 5874}, {5034, 5311, 3300}},
		[2]knot{{959, 269, 91}, {969, 226, 98}})
	b.shot(SceneClouds, 6000,
		[2]knot{{-15356, 2360, -20901}, {-15783, 4430, -27896}},
		[2]knot{{-14556, 1998, -20478}, {-15041, 3945, -27434}},
		[2]knot{{526, 851, -3}, {612, 788, 64}})
	b.shot(SceneClouds, 2000,
		[2]knot{{-22866, 6607, -40907}, {-21479, 5137, -40133}},
		[2]knot{{-22003, 6105, -40841}, {-20546, 4963, -39855}},
		[2]knot{{213, 476, 853}, {-102, 637, 764}})
	b.shot(SceneClouds, 7000,
		[2]knot{{29655, 81741, -165885}, {6513, 60018, -150942}},
		[2]knot{{28709, 81326, -165626}, {5848, 59480, -151348}},
		[2]knot{{270, 785, -556}, {35, 854, 518}})
	b.shot(SceneClouds, 6000,
		[2]knot{{929, 58084, -154628}, {1374, 53406, -138193}},
		[2]knot{{1716, 57829, -153957}, {2255, 53851, -138050}},
		[2]knot{{-364, 644, 672}, {-371, 834, 407}})
	b.shot(SceneClouds, 9000,
		[2]knot{{-44005, 6907, -81352}, {-44253, 5997, -80718}},
		[2]knot{{-43156, 7072, -80849}, {-43473, 6094, -80100}},
		[2]knot{{-356, 930, 85}, {-336, 935, 106}})
	b.shot(SceneClouds, 7000,
		[2]knot{{27574, 34599, -6791}, {28029, 33090, 1093}},
		[2]knot{{26701, 34652, -6306}, {27053, 33191, 1293}},
		[2]knot{{330, 828, 452}, {217, 833, 509}})

	b.sketch(SceneHuygensSketch14, 1400)
	b.sketch(SceneHuygensSketch15, 10000)
	return b.end()
}

// Demo parses the built-in intro track
func Demo() (*Timeline, error) {
	return Parse(DemoTrack())
}
