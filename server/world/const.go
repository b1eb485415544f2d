package world

// PlotScale controls the size of a plot: a plot spans 2^PlotScale chunks on each
// horizontal axis.
const PlotScale = 5

// PlotWidth is the width of a plot counted in chunks.
const PlotWidth = 1 << PlotScale

// NumChunks is the number of chunks stored per plot.
const NumChunks = PlotWidth * PlotWidth

// PlotBlockWidth is the plot width counted in blocks.
const PlotBlockWidth = PlotWidth * 16

// PlotSections is the height of the world counted in 16-block sections.
const PlotSections = 24

// PlotBlockHeight is the world height counted in blocks.
const PlotBlockHeight = PlotSections * 16

// WorldEventBlockBreak is the vanilla "block break particles" world event id
// (2001), whose data field carries the broken block's state.
const WorldEventBlockBreak int32 = 2001
