package tracer

// A horizontal strip of the frame.
type Block struct {
	Y uint32
	H uint32
}

// The BlockScheduler interface is implemented by all block scheduling
// algorithms. Blocks are handed to tracers as they become idle so the
// scheduler only decides how the frame is cut.
type BlockScheduler interface {
	// Split frame into blocks that cover every row exactly once, in
	// top-to-bottom order.
	Schedule(frameH uint32) []Block
}

// Splits the frame into blocks with a fixed number of rows.
type fixedScheduler struct {
	blockH uint32
}

// Create a scheduler that emits blocks of blockH rows. The last block may
// be shorter.
func NewFixedScheduler(blockH uint32) BlockScheduler {
	if blockH == 0 {
		blockH = 1
	}
	return &fixedScheduler{blockH: blockH}
}

func (sch *fixedScheduler) Schedule(frameH uint32) []Block {
	return splitRows(frameH, sch.blockH)
}

// Splits the frame so that each tracer receives a number of blocks on
// average. Having more blocks than tracers lets fast tracers pick up the
// slack of slow ones.
type balancedScheduler struct {
	numTracers      uint32
	blocksPerTracer uint32
}

// Create a scheduler that emits about numTracers * blocksPerTracer blocks.
func NewBalancedScheduler(numTracers, blocksPerTracer uint32) BlockScheduler {
	if numTracers == 0 {
		numTracers = 1
	}
	if blocksPerTracer == 0 {
		blocksPerTracer = 1
	}
	return &balancedScheduler{
		numTracers:      numTracers,
		blocksPerTracer: blocksPerTracer,
	}
}

func (sch *balancedScheduler) Schedule(frameH uint32) []Block {
	numBlocks := sch.numTracers * sch.blocksPerTracer
	blockH := (frameH + numBlocks - 1) / numBlocks
	if blockH == 0 {
		blockH = 1
	}
	return splitRows(frameH, blockH)
}

func splitRows(frameH, blockH uint32) []Block {
	blocks := make([]Block, 0, (frameH+blockH-1)/blockH)
	for y := uint32(0); y < frameH; y += blockH {
		h := blockH
		if y+h > frameH {
			h = frameH - y
		}
		blocks = append(blocks, Block{Y: y, H: h})
	}
	return blocks
}
