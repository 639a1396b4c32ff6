package animation

type storageKey struct {
	target   Target
	property string
}

// StorageTable tracks the animations applied to each (target, property)
// pair. Animations on the same pair stack: only the most recently attached
// one writes, and each remembers the value it replaced.
type StorageTable struct {
	stacks map[storageKey][]*Storage
}

// NewStorageTable returns an empty table.
func NewStorageTable() *StorageTable {
	return &StorageTable{stacks: make(map[storageKey][]*Storage)}
}

// Storage is one animation's hold on a property.
type Storage struct {
	table    *StorageTable
	key      storageKey
	base     Value
	attached bool
}

// Attach snapshots the property's current value as the base value of a new
// storage and puts it on top of the pair's stack. The storage below stops
// writing until this one is detached.
func (t *StorageTable) Attach(target Target, property string) (*Storage, error) {
	base, err := target.GetValue(property)
	if err != nil {
		return nil, err
	}
	s := &Storage{
		table:    t,
		key:      storageKey{target: target, property: property},
		base:     base,
		attached: true,
	}
	t.stacks[s.key] = append(t.stacks[s.key], s)
	return s, nil
}

// Top returns the storage currently writing to the pair, or nil.
func (t *StorageTable) Top(target Target, property string) *Storage {
	stack := t.stacks[storageKey{target: target, property: property}]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// Depth returns how many storages are stacked on the pair.
func (t *StorageTable) Depth(target Target, property string) int {
	return len(t.stacks[storageKey{target: target, property: property}])
}

// Len returns the number of animated pairs.
func (t *StorageTable) Len() int { return len(t.stacks) }

// Base returns the value the property had when the storage attached, or
// the value handed to it by a storage detached from beneath it.
func (s *Storage) Base() Value { return s.base }

// Attached reports whether the storage still holds the property.
func (s *Storage) Attached() bool { return s.attached }

// Target returns the animated object.
func (s *Storage) Target() Target { return s.key.target }

// Property returns the animated property.
func (s *Storage) Property() string { return s.key.property }

// IsTop reports whether the storage is the one writing to its property.
func (s *Storage) IsTop() bool {
	return s.attached && s.table.Top(s.key.target, s.key.property) == s
}

// Write sets the property to v if the storage is on top of its stack.
func (s *Storage) Write(v Value) error {
	if !s.IsTop() {
		return nil
	}
	return s.key.target.SetValue(s.key.property, v)
}

// Detach releases the property. The top storage restores its base value,
// which lets the storage below carry on from where it left off. A storage
// lower in the stack passes its base value up to the one above it. Detach
// is idempotent.
func (s *Storage) Detach() error {
	if !s.attached {
		return nil
	}
	s.attached = false

	stack := s.table.stacks[s.key]
	i := len(stack) - 1
	for i >= 0 && stack[i] != s {
		i--
	}
	if i < 0 {
		return nil
	}
	top := i == len(stack)-1
	if !top {
		stack[i+1].base = s.base
	}
	stack = append(stack[:i], stack[i+1:]...)
	if len(stack) == 0 {
		delete(s.table.stacks, s.key)
	} else {
		s.table.stacks[s.key] = stack
	}
	if top {
		return s.key.target.SetValue(s.key.property, s.base)
	}
	return nil
}
