package main

// primaryFunc evaluates one test or action against an entry. args are the
// argument tokens already consumed from the stream (without the terminating
// ';' for the exec family).
type primaryFunc func(f *Finder, path string, args []string) (bool, error)

// primary describes one entry of the expression vocabulary: how many
// argument tokens it consumes (or variadic-until-';'), whether it has side
// effects, and its evaluation function. The action flag is what decides
// whether an implicit -print is appended, and would let a parallel walker
// refuse expressions with side effects.
type primary struct {
	nargs    int
	variadic bool
	action   bool
	fn       primaryFunc
}

// primaries is the complete, fixed vocabulary. Built once, never mutated.
var primaries = map[string]primary{
	// Tests.
	"-name":       {nargs: 1, fn: testName},
	"-iname":      {nargs: 1, fn: testIname},
	"-path":       {nargs: 1, fn: testPath},
	"-wholename":  {nargs: 1, fn: testPath},
	"-ipath":      {nargs: 1, fn: testIpath},
	"-iwholename": {nargs: 1, fn: testIpath},
	"-regex":      {nargs: 1, fn: testRegex},
	"-iregex":     {nargs: 1, fn: testIregex},
	"-type":       {nargs: 1, fn: testType},
	"-perm":       {nargs: 1, fn: testPerm},
	"-size":       {nargs: 1, fn: testSize},
	"-mtime":      {nargs: 1, fn: testMtime},
	"-atime":      {nargs: 1, fn: testAtime},
	"-ctime":      {nargs: 1, fn: testCtime},
	"-mmin":       {nargs: 1, fn: testMmin},
	"-amin":       {nargs: 1, fn: testAmin},
	"-cmin":       {nargs: 1, fn: testCmin},
	"-links":      {nargs: 1, fn: testLinks},
	"-inum":       {nargs: 1, fn: testInum},
	"-newer":      {nargs: 1, fn: testNewer},
	"-anewer":     {nargs: 1, fn: testAnewer},
	"-cnewer":     {nargs: 1, fn: testCnewer},
	"-user":       {nargs: 1, fn: testUser},
	"-group":      {nargs: 1, fn: testGroup},
	"-empty":      {fn: testEmpty},
	"-readable":   {fn: testReadable},
	"-writable":   {fn: testWritable},
	"-executable": {fn: testExecutable},
	"-true":       {fn: testTrue},
	"-false":      {fn: testFalse},

	// Actions.
	"-print":   {action: true, fn: actionPrint},
	"-print0":  {action: true, fn: actionPrint0},
	"-ls":      {action: true, fn: actionLs},
	"-delete":  {action: true, fn: actionDelete},
	"-prune":   {action: true, fn: actionPrune},
	"-quit":    {action: true, fn: actionQuit},
	"-exec":    {variadic: true, action: true, fn: actionExec},
	"-ok":      {variadic: true, action: true, fn: actionOk},
	"-execdir": {variadic: true, action: true, fn: actionExecdir},
	"-okdir":   {variadic: true, action: true, fn: actionOkdir},
}
