package resp

// frame is an aggregate reply under construction.
type frame struct {
	tag  Tag
	need int // child replies required; twice the entry count for maps
	next int // index of the next child

	items []any // TagArray, TagPush
	m     *Map  // TagMap
	set   *Set  // TagSet

	key any // TagMap: key waiting for its value
}

func newFrame(tag Tag, count int) frame {
	f := frame{tag: tag, need: count}
	switch tag {
	case TagMap:
		f.need = 2 * count
		f.m = newMap(count)
	case TagSet:
		f.set = newSet(count)
	default:
		f.items = make([]any, 0, min(count, maxPrealloc))
	}
	return f
}

// add wires a completed child into the frame.
func (f *frame) add(v any) {
	switch f.tag {
	case TagMap:
		// Entries arrive linearized as key, value, key, value...
		if f.next%2 == 0 {
			f.key = v
		} else {
			f.m.Set(f.key, v)
			f.key = nil
		}
	case TagSet:
		f.set.Add(v)
	default:
		f.items = append(f.items, v)
	}
	f.next++
}

func (f *frame) done() bool {
	return f.next == f.need
}

func (f *frame) value() any {
	switch f.tag {
	case TagMap:
		return f.m
	case TagSet:
		return f.set
	case TagPush:
		return Push(f.items)
	}
	return f.items
}

// emptyAggregate is the value of an aggregate announced with zero elements.
func emptyAggregate(tag Tag) any {
	switch tag {
	case TagMap:
		return newMap(0)
	case TagSet:
		return newSet(0)
	case TagPush:
		return Push{}
	}
	return []any{}
}

// builder tracks the aggregate replies under construction as a stack. The
// parent of stack[i] is stack[i-1]; the stack is empty between replies.
type builder struct {
	stack []frame
}

func (b *builder) idle() bool {
	return len(b.stack) == 0
}

func (b *builder) depth() int {
	return len(b.stack)
}

// open starts an aggregate with count children. Empty aggregates complete
// immediately and never reach the stack.
func (b *builder) open(tag Tag, count int) (root any, done bool) {
	if count == 0 {
		return b.deliver(emptyAggregate(tag))
	}
	b.stack = append(b.stack, newFrame(tag, count))
	return nil, false
}

// deliver hands a completed value to the innermost open aggregate. Frames
// completed by it are popped and delivered to their own parents in turn.
// When the stack empties, the root value is returned with done=true.
func (b *builder) deliver(v any) (root any, done bool) {
	for len(b.stack) > 0 {
		top := &b.stack[len(b.stack)-1]
		top.add(v)
		if !top.done() {
			return nil, false
		}
		v = top.value()
		b.stack[len(b.stack)-1] = frame{}
		b.stack = b.stack[:len(b.stack)-1]
	}
	return v, true
}

func (b *builder) reset() {
	clear(b.stack)
	b.stack = b.stack[:0]
}
