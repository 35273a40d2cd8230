package skiplist

// randomHeight draws a node height in [1, maxHeight]: start at 1 and keep
// climbing while a fair coin comes up heads.
func (l *Skiplist[K, V]) randomHeight() int {
	height := 1
	for height < l.maxHeight && l.coin.OneIn(2) {
		height++
	}
	return height
}
