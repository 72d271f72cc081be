// game パッケージはヒット円に対するクリック判定と発見済み状態を管理します
package game

import (
	"github.com/xshoji/go-spot-diff/imageutil"
)

// Session は1回のゲームにおけるヒット円と発見済みの差分を保持する
type Session struct {
	circles []imageutil.Circle
	found   []bool
	order   []int
}

// NewSession はヒット円のリストから新しいセッションを作成する
// circles はコピーして保持する
func NewSession(circles []imageutil.Circle) *Session {
	c := make([]imageutil.Circle, len(circles))
	copy(c, circles)
	return &Session{
		circles: c,
		found:   make([]bool, len(c)),
	}
}

// Click は点 (x, y) をリスト順に判定し、最初に当たった未発見の円を発見済みにする
// 当たった円のインデックスと true を返す。どれにも当たらなければ (-1, false)
func (s *Session) Click(x, y int) (int, bool) {
	for i, c := range s.circles {
		if s.found[i] {
			continue
		}
		if c.Contains(x, y) {
			s.found[i] = true
			s.order = append(s.order, i)
			return i, true
		}
	}
	return -1, false
}

// Circles はヒット円のリストをリスト順に返す
func (s *Session) Circles() []imageutil.Circle {
	return s.circles
}

// IsFound はi番目の円が発見済みかを返す
func (s *Session) IsFound(i int) bool {
	return i >= 0 && i < len(s.found) && s.found[i]
}

// Found は発見済みの円のインデックスを発見順に返す
func (s *Session) Found() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// FoundCircles は発見済みの円を発見順に返す
func (s *Session) FoundCircles() []imageutil.Circle {
	out := make([]imageutil.Circle, 0, len(s.order))
	for _, i := range s.order {
		out = append(out, s.circles[i])
	}
	return out
}

// Total は円の総数
func (s *Session) Total() int { return len(s.circles) }

// Remaining は未発見の円の数
func (s *Session) Remaining() int { return len(s.circles) - len(s.order) }

// Complete は全ての円が発見済みかを返す。円が1つもない場合は false
func (s *Session) Complete() bool {
	return len(s.circles) > 0 && s.Remaining() == 0
}
