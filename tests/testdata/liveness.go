package testdata

func pick(x int) int { // want `^0\.entry: t0 x$` `^1\.if\.then:$` `^2\.if\.done:$`
	y := x + 1
	if y > 10 {
		return y * 2
	}
	return x
}

func abs(x int) int { // want `^0\.entry: x$` `^1\.if\.then:$` `^2\.if\.done:$`
	if x < 0 {
		return -x
	}
	return x
}

func add(a, b int) int { // want `^0\.entry:$`
	return a + b
}

func addr() *int { // want `^0\.entry:$`
	v := 1
	return &v
}

type box struct{ v int }

func (b *box) get(ok bool) int { // want `^0\.entry: b$` `^1\.if\.then:$` `^2\.if\.done:$`
	if ok {
		return b.v
	}
	return 0
}

func counter() func() int { // want `^0\.entry:$`
	n := 0
	return func() int { // want `^0\.entry:$`
		n++
		return n
	}
}
